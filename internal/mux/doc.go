// Package mux wraps the ffmpeg subprocess that joins separately fetched
// video and audio streams. The video stream is copied and audio is re-encoded to AAC.
package mux
