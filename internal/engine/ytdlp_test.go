package engine

import (
	"errors"
	"testing"

	"github.com/lrstanley/go-ytdlp"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestConvertInfo(t *testing.T) {
	info := &ytdlp.ExtractedInfo{
		ExtractedFormat: &ytdlp.ExtractedFormat{Extension: strPtr("webm")},
		ID:              "abc",
		Title:           strPtr("Clip"),
		Duration:        floatPtr(212.7),
		Uploader:        strPtr("Chan"),
		ViewCount:       floatPtr(1500),
		Formats: []*ytdlp.ExtractedFormat{
			{FormatID: strPtr("137"), Height: floatPtr(1080), VCodec: strPtr("avc1"), Extension: strPtr("mp4")},
			nil,
			{FormatID: strPtr("140"), ACodec: strPtr("mp4a.40.2"), ABR: floatPtr(129.5)},
		},
	}

	full := convertInfo(info, ModeFull)
	if full.Title != "Clip" || full.Uploader != "Chan" || full.Ext != "webm" {
		t.Fatalf("unexpected metadata: %+v", full)
	}
	if full.Duration != 212.7 || full.ViewCount != 1500 {
		t.Fatalf("unexpected numbers: %+v", full)
	}
	if full.Thumbnail != "" {
		t.Fatalf("expected empty thumbnail, got %q", full.Thumbnail)
	}
	if len(full.Formats) != 2 {
		t.Fatalf("expected 2 formats, got %d", len(full.Formats))
	}
	if f := full.Formats[0]; f.FormatID != "137" || f.Height != 1080 || f.HasAudio() {
		t.Fatalf("unexpected video format: %+v", f)
	}
	if f := full.Formats[1]; !f.HasAudio() || f.ABR == nil || *f.ABR != 129.5 {
		t.Fatalf("unexpected audio format: %+v", f)
	}

	basic := convertInfo(info, ModeBasic)
	if len(basic.Formats) != 0 {
		t.Fatalf("basic mode should drop formats, got %d", len(basic.Formats))
	}
}

func TestConvertInfoWithoutFormat(t *testing.T) {
	raw := convertInfo(&ytdlp.ExtractedInfo{ID: "x"}, ModeFull)
	if raw.ID != "x" || raw.Ext != "" || len(raw.Formats) != 0 {
		t.Fatalf("unexpected result: %+v", raw)
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"engine line", errors.New("exit code 1: exit status 1\n\n[youtube] x: Downloading\nERROR: [youtube] x: Video unavailable\n"), "ERROR: [youtube] x: Video unavailable"},
		{"plain", errors.New("  context deadline exceeded "), "context deadline exceeded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractModeString(t *testing.T) {
	if ModeBasic.String() != "basic" || ModeFull.String() != "full" {
		t.Fatalf("unexpected mode names: %s %s", ModeBasic, ModeFull)
	}
}

func TestSetTimeoutsKeepsDefaults(t *testing.T) {
	y := NewYTDLP("", "")
	y.SetTimeouts(0, -1)
	if y.extractTimeout != DefaultExtractTimeout || y.fetchTimeout != DefaultFetchTimeout {
		t.Fatalf("timeouts changed: %v %v", y.extractTimeout, y.fetchTimeout)
	}
}
