// Package metadata turns engine output into VideoInfo and a QualityMap.
package metadata

import (
	"context"
	"log"

	"github.com/ytget/yt-downloader-api/internal/engine"
	"github.com/ytget/yt-downloader-api/internal/model"
	"github.com/ytget/yt-downloader-api/internal/platform"
)

// Resolution is everything learned about a URL from one engine call
type Resolution struct {
	Info      model.VideoInfo
	Qualities model.QualityMap // empty unless the platform has a quality map
	Raw       *model.RawInfo   // kept for audio lookup during merge
}

// AvailableQualities returns the quality labels in preference order
func (r *Resolution) AvailableQualities() []string {
	return r.Qualities.Labels()
}

// Resolver queries the extraction engine
type Resolver struct {
	extractor engine.Extractor
}

// NewResolver creates a new metadata resolver
func NewResolver(extractor engine.Extractor) *Resolver {
	return &Resolver{extractor: extractor}
}

// Inspect classifies url and resolves its metadata
func (r *Resolver) Inspect(ctx context.Context, url string) (*Resolution, error) {
	return r.Resolve(ctx, url, platform.Classify(url))
}

// Resolve extracts metadata for url. Only primary YouTube URLs get the full
// format listing and a quality map.
func (r *Resolver) Resolve(ctx context.Context, url string, p model.Platform) (*Resolution, error) {
	if !p.IsKnown() {
		return nil, model.Failuref(model.FailureUnsupportedPlatform, "Unsupported platform for URL: %s", url)
	}

	mode := engine.ModeBasic
	if p.HasQualityMap() {
		mode = engine.ModeFull
	}

	raw, err := r.extractor.Extract(ctx, url, mode)
	if err != nil {
		log.Printf("[info] extraction failed for %s: %v", url, err)
		return nil, model.NewFailure(model.FailureMetadata, err.Error(), err)
	}

	res := &Resolution{
		Info:      BuildVideoInfo(raw, p),
		Qualities: model.QualityMap{},
		Raw:       raw,
	}
	if p.HasQualityMap() {
		res.Qualities = BuildQualityMap(raw.Formats)
	}

	log.Printf("[info] resolved %s platform=%s qualities=%v", url, p, res.AvailableQualities())
	return res, nil
}

// BuildVideoInfo fills in defaults for missing fields. Shorts are reported
// as youtube with IsShorts set.
func BuildVideoInfo(raw *model.RawInfo, p model.Platform) model.VideoInfo {
	info := model.VideoInfo{
		Title:     raw.Title,
		Thumbnail: raw.Thumbnail,
		Uploader:  raw.Uploader,
		Platform:  p,
	}
	if info.Title == "" {
		info.Title = model.DefaultTitle
	}
	if info.Uploader == "" {
		info.Uploader = model.DefaultUploader
	}
	if raw.Duration > 0 {
		info.Duration = int(raw.Duration)
	}
	if raw.ViewCount > 0 {
		info.ViewCount = int64(raw.ViewCount)
	}
	if p == model.PlatformYouTubeShorts {
		info.Platform = model.PlatformYouTube
		info.IsShorts = true
	}
	return info
}

// BuildQualityMap labels formats by exact height. A later format at the same
// height replaces an earlier one.
func BuildQualityMap(formats []model.RawFormat) model.QualityMap {
	qualities := model.QualityMap{}
	for _, f := range formats {
		label, ok := model.QualityForHeight(f.Height)
		if !ok {
			continue
		}
		kind := model.FormatVideoOnly
		if f.HasAudio() {
			kind = model.FormatProgressive
		}
		qualities[label] = model.FormatRef{ID: f.FormatID, Kind: kind}
	}
	return qualities
}
