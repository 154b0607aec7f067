// Package download implements the fetch and merge pipeline on top of the
// media engine. YouTube URLs go through quality selection and, for
// video-only formats, a separate audio fetch and an ffmpeg merge. Other
// known platforms are fetched in one step.
package download
