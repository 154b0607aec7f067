package mux

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"
)

// FFmpeg constants for merge settings
const (
	FFmpegCommand = "ffmpeg"
	VideoCodec    = "copy"
	AudioCodec    = "aac"
	OverwriteFlag = "-y"

	// Keep the tail of ffmpeg output in errors, it holds the actual reason
	MaxDiagnosticBytes = 4096
)

// MergeError is returned when ffmpeg fails
type MergeError struct {
	ExitCode int
	Output   string
	Err      error
}

func (e *MergeError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("ffmpeg exited with code %d: %v", e.ExitCode, e.Err)
	}
	return fmt.Sprintf("ffmpeg exited with code %d: %s", e.ExitCode, e.Output)
}

func (e *MergeError) Unwrap() error {
	return e.Err
}

// FFmpegMerger runs ffmpeg as a subprocess
type FFmpegMerger struct {
	executable string
}

// NewFFmpegMerger creates a merger. An empty path means "ffmpeg" from PATH.
func NewFFmpegMerger(executable string) *FFmpegMerger {
	if executable == "" {
		executable = FFmpegCommand
	}
	return &FFmpegMerger{executable: executable}
}

// Executable returns the ffmpeg binary that is invoked
func (m *FFmpegMerger) Executable() string {
	return m.executable
}

// Available checks if ffmpeg can be executed
func (m *FFmpegMerger) Available() bool {
	_, err := exec.LookPath(m.executable)
	return err == nil
}

// Merge writes outputPath from videoPath and audioPath, replacing any
// existing file. Partial output is removed on failure.
func (m *FFmpegMerger) Merge(ctx context.Context, videoPath, audioPath, outputPath string) error {
	args := BuildMergeArgs(videoPath, audioPath, outputPath)
	cmd := exec.CommandContext(ctx, m.executable, args...)

	started := time.Now()
	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(outputPath)

		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		mergeErr := &MergeError{ExitCode: exitCode, Output: diagnostic(output), Err: err}
		log.Printf("[mux] merge of %s failed: %v", outputPath, mergeErr)
		return mergeErr
	}

	log.Printf("[mux] merged %s in %s", outputPath, time.Since(started).Round(time.Millisecond))
	return nil
}

// BuildMergeArgs builds the ffmpeg command arguments
func BuildMergeArgs(videoPath, audioPath, outputPath string) []string {
	return []string{
		"-i", videoPath, // Video input
		"-i", audioPath, // Audio input
		"-c:v", VideoCodec, // Stream copy video
		"-c:a", AudioCodec, // Re-encode audio
		outputPath,
		OverwriteFlag,
	}
}

func diagnostic(output []byte) string {
	text := strings.TrimSpace(string(output))
	if len(text) > MaxDiagnosticBytes {
		text = text[len(text)-MaxDiagnosticBytes:]
	}
	return text
}
