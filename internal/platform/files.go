package platform

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Extensions the fetch engine leaves behind for unfinished downloads
var (
	SkippedExtensions = []string{".part", ".ytdl"}
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// FileSize returns the size of a regular file
func FileSize(filePath string) (int64, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("path is a directory: %s", filePath)
	}
	return info.Size(), nil
}

// RemoveFiles deletes every path, tolerating files that are already gone.
// Other failures are logged and collected but never stop the loop.
func RemoveFiles(paths ...string) error {
	var errs []error
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("[cleanup] failed to remove %s: %v", p, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RemovePartial deletes a file together with the engine's unfinished leftovers
func RemovePartial(filePath string) error {
	paths := []string{filePath}
	for _, ext := range SkippedExtensions {
		paths = append(paths, filePath+ext)
	}
	return RemoveFiles(paths...)
}

// FindDownloadedFile looks in dir for a finished file named stem with any
// extension. It is used when the engine did not report the final path.
func FindDownloadedFile(dir, stem string) (string, error) {
	if stem == "" {
		return "", fmt.Errorf("file stem is empty")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := filepath.Ext(name)
		if slices.Contains(SkippedExtensions, ext) {
			continue
		}
		if strings.TrimSuffix(name, ext) == stem {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("file not found: %s", filepath.Join(dir, stem))
	}

	// Prefer the most recently written candidate
	sort.Slice(candidates, func(i, j int) bool {
		infoI, _ := os.Stat(candidates[i])
		infoJ, _ := os.Stat(candidates[j])
		if infoI == nil || infoJ == nil {
			return candidates[i] < candidates[j]
		}
		return infoI.ModTime().After(infoJ.ModTime())
	})
	return candidates[0], nil
}

// RemoveUnfinished deletes the engine's unfinished files for stem in dir.
// Used when the final extension is not known yet.
func RemoveUnfinished(dir, stem string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, stem+".") {
			continue
		}
		if slices.Contains(SkippedExtensions, filepath.Ext(name)) {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return RemoveFiles(paths...)
}
