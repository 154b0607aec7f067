package engine

import (
	"context"

	"github.com/ytget/yt-downloader-api/internal/model"
)

// ExtractMode selects how much the engine reports about a URL
type ExtractMode int

const (
	// ModeBasic returns metadata without the format listing
	ModeBasic ExtractMode = iota
	// ModeFull returns metadata and every available format
	ModeFull
)

// String returns the string representation of ExtractMode
func (m ExtractMode) String() string {
	if m == ModeFull {
		return "full"
	}
	return "basic"
}

// FetchRequest describes one engine download.
// Output is either a literal path or an engine output template.
type FetchRequest struct {
	URL    string
	Format string
	Output string
}

// Extractor resolves metadata without downloading media
type Extractor interface {
	Extract(ctx context.Context, url string, mode ExtractMode) (*model.RawInfo, error)
}

// Fetcher downloads one format and returns the path it was written to
type Fetcher interface {
	Fetch(ctx context.Context, req FetchRequest) (string, error)
}

// Engine is the full media engine surface
type Engine interface {
	Extractor
	Fetcher
}
