package download

import (
	"context"

	"github.com/ytget/yt-downloader-api/internal/metadata"
	"github.com/ytget/yt-downloader-api/internal/model"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	// Download fetches url at the requested quality and returns the file to serve
	Download(ctx context.Context, url, quality string) (*model.DownloadResult, error)
}

// MetadataResolver resolves VideoInfo and the QualityMap for a URL
type MetadataResolver interface {
	Resolve(ctx context.Context, url string, p model.Platform) (*metadata.Resolution, error)
}
