package model

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a request failed
type FailureKind int

const (
	FailureInvalidInput FailureKind = iota + 1
	FailureUnsupportedPlatform
	FailureMetadata
	FailureNoFormats
	FailureQualityNotFound
	FailureFetch
	FailureAudioTrackMissing
	FailureMerge
	FailureIO
)

var failureNames = map[FailureKind]string{
	FailureInvalidInput:        "invalid_input",
	FailureUnsupportedPlatform: "unsupported_platform",
	FailureMetadata:            "metadata_failure",
	FailureNoFormats:           "no_formats",
	FailureQualityNotFound:     "quality_not_found",
	FailureFetch:               "fetch_failure",
	FailureAudioTrackMissing:   "audio_track_missing",
	FailureMerge:               "merge_failure",
	FailureIO:                  "io_failure",
}

// String returns the string representation of FailureKind
func (k FailureKind) String() string {
	if name, ok := failureNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsClientError returns true for failures caused by the request itself
func (k FailureKind) IsClientError() bool {
	switch k {
	case FailureInvalidInput, FailureUnsupportedPlatform, FailureMetadata,
		FailureNoFormats, FailureQualityNotFound, FailureAudioTrackMissing:
		return true
	default:
		return false
	}
}

// Failure is the error returned by every step up through the orchestrator
type Failure struct {
	Kind    FailureKind
	Message string
	Err     error
}

// NewFailure creates a failure with a human readable message
func NewFailure(kind FailureKind, message string, err error) *Failure {
	return &Failure{Kind: kind, Message: message, Err: err}
}

// Failuref creates a failure with a formatted message
func Failuref(kind FailureKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure extracts a Failure from an error chain
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// DownloadResult is a finished download ready to be served.
// TempFiles is empty for single-stream downloads.
type DownloadResult struct {
	FilePath  string   `json:"file_path"`
	Filename  string   `json:"filename"`
	TempFiles []string `json:"temp_files"`
}
