package engine

import (
	"context"
	"fmt"
	"log"
	"os/exec"

	"github.com/lrstanley/go-ytdlp"
)

// Tool executable names looked up on PATH
const (
	YTDLPCommand  = "yt-dlp"
	FFmpegCommand = "ffmpeg"
)

// Tools holds the resolved executables
type Tools struct {
	YTDLP  string
	FFmpeg string
}

// ResolveTools finds yt-dlp and ffmpeg. Explicit paths win, then PATH.
// With autoInstall set, go-ytdlp downloads whatever is still missing into its cache.
// Only a missing yt-dlp is an error; without ffmpeg, merges fail later.
func ResolveTools(ctx context.Context, ytdlpPath, ffmpegPath string, autoInstall bool) (Tools, error) {
	tools := Tools{YTDLP: ytdlpPath, FFmpeg: ffmpegPath}

	if tools.YTDLP == "" {
		if path, err := exec.LookPath(YTDLPCommand); err == nil {
			tools.YTDLP = path
		}
	}
	if tools.FFmpeg == "" {
		if path, err := exec.LookPath(FFmpegCommand); err == nil {
			tools.FFmpeg = path
		}
	}

	if tools.YTDLP == "" && autoInstall {
		resolved, err := ytdlp.Install(ctx, &ytdlp.InstallOptions{AllowVersionMismatch: true})
		if err != nil {
			return tools, fmt.Errorf("install yt-dlp: %w", err)
		}
		log.Printf("[engine] using yt-dlp %s (cached=%t, downloaded=%t)", resolved.Executable, resolved.FromCache, resolved.Downloaded)
		tools.YTDLP = resolved.Executable
	}
	if tools.FFmpeg == "" && autoInstall {
		resolved, err := ytdlp.InstallFFmpeg(ctx, nil)
		if err != nil {
			log.Printf("[engine] WARN install ffmpeg: %v", err)
		} else {
			log.Printf("[engine] using ffmpeg %s (downloaded=%t)", resolved.Executable, resolved.Downloaded)
			tools.FFmpeg = resolved.Executable
		}
	}

	if tools.YTDLP == "" {
		return tools, fmt.Errorf("%s not found in PATH", YTDLPCommand)
	}
	if tools.FFmpeg == "" {
		log.Printf("[engine] WARN %s not found, merged downloads will fail", FFmpegCommand)
	}
	return tools, nil
}
