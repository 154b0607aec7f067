package model

// Defaults used when the engine leaves a field out
const (
	DefaultTitle    = "Unknown Title"
	DefaultUploader = "Unknown"
)

// VideoInfo is the public metadata returned for a URL
type VideoInfo struct {
	Title     string   `json:"title"`
	Duration  int      `json:"duration"`
	Thumbnail string   `json:"thumbnail"`
	Uploader  string   `json:"uploader"`
	ViewCount int64    `json:"view_count"`
	Platform  Platform `json:"platform"`
	IsShorts  bool     `json:"is_shorts"`
}

// RawFormat is one format record reported by the extraction engine
type RawFormat struct {
	FormatID string
	Ext      string
	Height   int
	ACodec   string
	VCodec   string
	ABR      *float64 // nil when the engine reports no audio bitrate
}

// HasAudio returns true if the format reports an audio codec
func (f RawFormat) HasAudio() bool {
	return f.ACodec != "" && f.ACodec != "none"
}

// RawInfo is the engine response kept around for audio lookup during merge
type RawInfo struct {
	ID        string
	Title     string
	Duration  float64
	Thumbnail string
	Uploader  string
	ViewCount float64
	Ext       string
	Formats   []RawFormat
}

// BestAudio returns the audio-bearing format with the highest bitrate
func (r *RawInfo) BestAudio() (RawFormat, bool) {
	var best RawFormat
	found := false
	for _, f := range r.Formats {
		if !f.HasAudio() || f.ABR == nil {
			continue
		}
		if !found || *f.ABR > *best.ABR {
			best = f
			found = true
		}
	}
	return best, found
}
