package platform

// Package platform contains host-platform detection for video URLs, filename
// sanitizing and header decoding, and filesystem helpers for the shared
// download directory.
