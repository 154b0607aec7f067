package config

import (
	"io"
	"log"
	"os"
)

// SetupLogging sends the standard logger to console and, when logFile is
// set, also appends to that file. The returned closer releases the file.
func SetupLogging(console io.Writer, logFile string) io.Closer {
	out := console
	var closer io.Closer = nopCloser{}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Printf("[init] WARN opening log file %q: %v", logFile, err)
		} else {
			out = io.MultiWriter(console, f)
			closer = f
		}
	}

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.SetPrefix("")
	log.SetOutput(out)
	log.Printf("[init] logging configured (file=%q)", logFile)
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
