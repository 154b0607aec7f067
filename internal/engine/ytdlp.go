package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/ytget/yt-downloader-api/internal/model"
)

// Engine defaults
const (
	DefaultExtractTimeout = 60 * time.Second
	DefaultFetchTimeout   = 30 * time.Minute
	ProgressInterval      = 5 * time.Second
	EngineErrorPrefix     = "ERROR:"
)

// ErrNoInfo is returned when the engine exits cleanly but reports nothing
var ErrNoInfo = errors.New("engine returned no media info")

// YTDLP runs yt-dlp through go-ytdlp
type YTDLP struct {
	executable     string
	ffmpegPath     string
	extractTimeout time.Duration
	fetchTimeout   time.Duration
}

// NewYTDLP creates an engine. An empty executable lets go-ytdlp resolve it from PATH or its cache.
func NewYTDLP(executable, ffmpegPath string) *YTDLP {
	return &YTDLP{
		executable:     executable,
		ffmpegPath:     ffmpegPath,
		extractTimeout: DefaultExtractTimeout,
		fetchTimeout:   DefaultFetchTimeout,
	}
}

// SetTimeouts bounds extraction and fetching. Non-positive values keep the current setting.
func (y *YTDLP) SetTimeouts(extract, fetch time.Duration) {
	if extract > 0 {
		y.extractTimeout = extract
	}
	if fetch > 0 {
		y.fetchTimeout = fetch
	}
}

func (y *YTDLP) newCommand() *ytdlp.Command {
	cmd := ytdlp.New().
		NoPlaylist().
		NoWarnings()
	if y.executable != "" {
		cmd.SetExecutable(y.executable)
	}
	if y.ffmpegPath != "" {
		cmd.FFmpegLocation(y.ffmpegPath)
	}
	return cmd
}

// Extract asks the engine for metadata. ModeBasic drops the format listing.
func (y *YTDLP) Extract(ctx context.Context, url string, mode ExtractMode) (*model.RawInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, y.extractTimeout)
	defer cancel()

	result, err := y.newCommand().DumpJSON().Run(ctx, url)
	if err != nil {
		return nil, errors.New(Message(err))
	}

	infos, err := result.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("parse engine output: %w", err)
	}
	if len(infos) == 0 || infos[0] == nil {
		return nil, ErrNoInfo
	}

	log.Printf("[engine] extracted %s mode=%s formats=%d", url, mode, len(infos[0].Formats))
	return convertInfo(infos[0], mode), nil
}

// Fetch downloads req.Format of req.URL to req.Output. The returned path is
// the one the engine reported, empty if it reported none.
func (y *YTDLP) Fetch(ctx context.Context, req FetchRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, y.fetchTimeout)
	defer cancel()

	cmd := y.newCommand().
		Format(req.Format).
		Output(req.Output).
		ForceOverwrites().
		PrintJSON().
		NoSimulate()

	cmd.ProgressFunc(ProgressInterval, func(update ytdlp.ProgressUpdate) {
		log.Printf("[engine] fetching %s format=%s %s", filepath.Base(update.Filename), req.Format, update.PercentString())
	})

	result, err := cmd.Run(ctx, req.URL)
	if err != nil {
		return "", errors.New(Message(err))
	}

	return writtenPath(result), nil
}

// Message returns the engine's own error line when it printed one
func Message(err error) string {
	if err == nil {
		return ""
	}
	text := err.Error()
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, EngineErrorPrefix) {
			return line
		}
	}
	return strings.TrimSpace(text)
}

func writtenPath(result *ytdlp.Result) string {
	if result == nil {
		return ""
	}
	infos, err := result.GetExtractedInfo()
	if err != nil || len(infos) == 0 {
		return ""
	}
	info := infos[len(infos)-1]
	if info.Filename != nil && *info.Filename != "" {
		return *info.Filename
	}
	if info.AltFilename != nil {
		return *info.AltFilename
	}
	return ""
}

func convertInfo(info *ytdlp.ExtractedInfo, mode ExtractMode) *model.RawInfo {
	raw := &model.RawInfo{
		ID:        info.ID,
		Title:     stringValue(info.Title),
		Duration:  floatValue(info.Duration),
		Thumbnail: stringValue(info.Thumbnail),
		Uploader:  stringValue(info.Uploader),
		ViewCount: floatValue(info.ViewCount),
	}
	if info.ExtractedFormat != nil {
		raw.Ext = stringValue(info.ExtractedFormat.Extension)
	}
	if mode != ModeFull {
		return raw
	}

	raw.Formats = make([]model.RawFormat, 0, len(info.Formats))
	for _, f := range info.Formats {
		if f == nil {
			continue
		}
		raw.Formats = append(raw.Formats, convertFormat(f))
	}
	return raw
}

func convertFormat(f *ytdlp.ExtractedFormat) model.RawFormat {
	return model.RawFormat{
		FormatID: stringValue(f.FormatID),
		Ext:      stringValue(f.Extension),
		Height:   int(floatValue(f.Height)),
		ACodec:   stringValue(f.ACodec),
		VCodec:   stringValue(f.VCodec),
		ABR:      f.ABR,
	}
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatValue(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
