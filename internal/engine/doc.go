// Package engine wraps the yt-dlp media engine (via github.com/lrstanley/go-ytdlp).
// It extracts metadata as model.RawInfo and fetches single formats to disk.
package engine
