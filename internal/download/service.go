package download

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ytget/yt-downloader-api/internal/engine"
	"github.com/ytget/yt-downloader-api/internal/model"
	"github.com/ytget/yt-downloader-api/internal/mux"
	"github.com/ytget/yt-downloader-api/internal/platform"
	"github.com/ytget/yt-downloader-api/internal/quality"
)

// Download constants
const (
	DefaultDirectFormat = "best[height<=1080]/best"
	VideoSuffix         = "_video"
	AudioSuffix         = "_audio"
	ExtensionTemplate   = ".%(ext)s"
	TaskIDPrefix        = "download-"
)

// User facing failure messages
const (
	MsgInvalidYouTubeURL = "Invalid YouTube URL!"
	MsgNoFormats         = "No available formats found!"
	MsgQualityMissing    = "Quality '%s' not available!"
	MsgNoAudio           = "No valid audio formats found!"
	MsgUnsupported       = "Unsupported platform for URL: %s"
)

// Service handles download operations. It owns every file it writes until
// the caller consumes the returned DownloadResult.
type Service struct {
	resolver     MetadataResolver
	fetcher      engine.Fetcher
	merger       mux.Merger
	downloadDir  string
	directFormat string
}

// NewService creates a new download service
func NewService(downloadDir string, resolver MetadataResolver, fetcher engine.Fetcher, merger mux.Merger) *Service {
	return &Service{
		resolver:     resolver,
		fetcher:      fetcher,
		merger:       merger,
		downloadDir:  downloadDir,
		directFormat: DefaultDirectFormat,
	}
}

// SetDirectFormat sets the engine format selector used for single-step platforms
func (s *Service) SetDirectFormat(format string) {
	if format = strings.TrimSpace(format); format != "" {
		s.directFormat = format
	}
}

// DownloadDir returns the working directory for all downloads
func (s *Service) DownloadDir() string {
	return s.downloadDir
}

// Download routes url to the YouTube pipeline or the direct fetch by platform
func (s *Service) Download(ctx context.Context, url, requested string) (*model.DownloadResult, error) {
	p := platform.Classify(url)
	switch {
	case p == model.PlatformYouTube:
		return s.DownloadYouTube(ctx, url, requested)
	case p.IsKnown():
		return s.DownloadDirect(ctx, url, p)
	default:
		return nil, model.Failuref(model.FailureUnsupportedPlatform, MsgUnsupported, url)
	}
}

// DownloadYouTube resolves formats, picks a quality and fetches it, merging
// separate video and audio streams when the chosen format has no audio.
func (s *Service) DownloadYouTube(ctx context.Context, url, requested string) (*model.DownloadResult, error) {
	if !platform.IsYouTubeURL(url) {
		return nil, model.NewFailure(model.FailureInvalidInput, MsgInvalidYouTubeURL, nil)
	}

	res, err := s.resolver.Resolve(ctx, url, model.PlatformYouTube)
	if err != nil {
		return nil, err
	}
	if len(res.Qualities) == 0 {
		return nil, model.NewFailure(model.FailureNoFormats, MsgNoFormats, nil)
	}

	label, ref, ok := quality.Match(requested, res.Qualities)
	if !ok {
		return nil, model.Failuref(model.FailureQualityNotFound, MsgQualityMissing, requested)
	}

	title := platform.SanitizeTitle(res.Info.Title)
	taskID := generateTaskID()
	log.Printf("[download] %s %s quality=%s format=%s kind=%s", taskID, url, label, ref.ID, ref.Kind)

	switch ref.Kind {
	case model.FormatProgressive:
		return s.fetchProgressive(ctx, taskID, url, ref, title)
	case model.FormatVideoOnly:
		return s.fetchAndMerge(ctx, taskID, url, ref, title, res.Raw)
	default:
		return nil, model.Failuref(model.FailureFetch, "unsupported format kind %s", ref.Kind)
	}
}

// DownloadDirect fetches url in one step with the direct format selector.
// The file extension is whatever the engine produced.
func (s *Service) DownloadDirect(ctx context.Context, url string, p model.Platform) (*model.DownloadResult, error) {
	res, err := s.resolver.Resolve(ctx, url, p)
	if err != nil {
		return nil, err
	}

	title := platform.SanitizeTitle(res.Info.Title)
	taskID := generateTaskID()
	log.Printf("[download] %s %s platform=%s format=%s", taskID, url, p, s.directFormat)

	path, err := s.fetcher.Fetch(ctx, engine.FetchRequest{
		URL:    url,
		Format: s.directFormat,
		Output: filepath.Join(s.downloadDir, title) + ExtensionTemplate,
	})
	if err != nil {
		platform.RemoveUnfinished(s.downloadDir, title)
		return nil, fetchFailure(taskID, err)
	}

	if path == "" {
		path, err = platform.FindDownloadedFile(s.downloadDir, title)
		if err != nil {
			return nil, model.NewFailure(model.FailureIO, err.Error(), err)
		}
	}

	log.Printf("[download] %s finished %s", taskID, path)
	return &model.DownloadResult{
		FilePath:  path,
		Filename:  filepath.Base(path),
		TempFiles: []string{},
	}, nil
}

// fetchProgressive downloads a format that already carries audio
func (s *Service) fetchProgressive(ctx context.Context, taskID, url string, ref model.FormatRef, title string) (*model.DownloadResult, error) {
	output := s.path(title, "")

	started := time.Now()
	if _, err := s.fetcher.Fetch(ctx, engine.FetchRequest{URL: url, Format: ref.ID, Output: output}); err != nil {
		platform.RemovePartial(output)
		return nil, fetchFailure(taskID, err)
	}

	log.Printf("[download] %s finished %s in %s", taskID, output, time.Since(started).Round(time.Second))
	return &model.DownloadResult{
		FilePath:  output,
		Filename:  filepath.Base(output),
		TempFiles: []string{},
	}, nil
}

// fetchAndMerge downloads video then audio then merges them. Any failure
// removes every intermediate written so far.
func (s *Service) fetchAndMerge(ctx context.Context, taskID, url string, ref model.FormatRef, title string, raw *model.RawInfo) (*model.DownloadResult, error) {
	videoPath := s.path(title, VideoSuffix)
	audioPath := s.path(title, AudioSuffix)
	output := s.path(title, "")

	started := time.Now()
	if _, err := s.fetcher.Fetch(ctx, engine.FetchRequest{URL: url, Format: ref.ID, Output: videoPath}); err != nil {
		platform.RemovePartial(videoPath)
		return nil, fetchFailure(taskID, err)
	}

	var audio model.RawFormat
	found := false
	if raw != nil {
		audio, found = raw.BestAudio()
	}
	if !found {
		log.Printf("[download] %s no audio track, removing %s", taskID, videoPath)
		platform.RemoveFiles(videoPath)
		return nil, model.NewFailure(model.FailureAudioTrackMissing, MsgNoAudio, nil)
	}

	if _, err := s.fetcher.Fetch(ctx, engine.FetchRequest{URL: url, Format: audio.FormatID, Output: audioPath}); err != nil {
		platform.RemovePartial(audioPath)
		platform.RemoveFiles(videoPath)
		return nil, fetchFailure(taskID, err)
	}

	if err := s.merger.Merge(ctx, videoPath, audioPath, output); err != nil {
		log.Printf("[download] %s merge failed: %v", taskID, err)
		platform.RemoveFiles(videoPath, audioPath, output)
		return nil, model.NewFailure(model.FailureMerge, err.Error(), err)
	}

	log.Printf("[download] %s merged %s (audio format %s) in %s", taskID, output, audio.FormatID, time.Since(started).Round(time.Second))
	return &model.DownloadResult{
		FilePath:  output,
		Filename:  filepath.Base(output),
		TempFiles: []string{videoPath, audioPath},
	}, nil
}

// path builds <dir>/<title><suffix>.mp4
func (s *Service) path(title, suffix string) string {
	return filepath.Join(s.downloadDir, title+suffix+platform.VideoExtension)
}

func fetchFailure(taskID string, err error) error {
	log.Printf("[download] %s fetch failed: %v", taskID, err)
	return model.NewFailure(model.FailureFetch, err.Error(), err)
}

// generateTaskID generates a unique ID for log correlation using UUID v7
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
