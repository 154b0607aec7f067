package mux

import "context"

// Merger combines a video-only file and an audio file into one container
type Merger interface {
	Merge(ctx context.Context, videoPath, audioPath, outputPath string) error
}
