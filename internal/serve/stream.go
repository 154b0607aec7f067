// Package serve streams a finished download to the client in fixed-size
// chunks and deletes the file and its intermediates afterwards.
package serve

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/ytget/yt-downloader-api/internal/model"
	"github.com/ytget/yt-downloader-api/internal/platform"
)

// Streaming constants
const (
	ChunkSize          = 8192
	DefaultContentType = "video/mp4"

	HeaderContentDisposition = "Content-Disposition"
	HeaderContentLength      = "Content-Length"
	HeaderContentType        = "Content-Type"
	HeaderFilename           = "X-Filename"

	dispositionPrefix = "attachment; filename*=UTF-8''"
)

// Stream is one prepared file response. The file stays open until Close,
// which also deletes it together with its temp files. Close runs once.
type Stream struct {
	file        *os.File
	path        string
	filename    string
	contentType string
	size        int64
	tempFiles   []string

	once sync.Once
}

// Prepare opens path for streaming under a cleaned display name.
// If the file cannot be opened every listed file is removed right away.
func Prepare(path, displayName string, tempFiles []string, asciiOnly bool) (*Stream, error) {
	s := &Stream{
		path:      path,
		filename:  platform.CleanFilename(displayName, asciiOnly),
		tempFiles: tempFiles,
	}

	size, err := platform.FileSize(path)
	if err != nil {
		s.Close()
		return nil, model.NewFailure(model.FailureIO, fmt.Sprintf("file not available: %v", err), err)
	}
	file, err := os.Open(path)
	if err != nil {
		s.Close()
		return nil, model.NewFailure(model.FailureIO, fmt.Sprintf("file not available: %v", err), err)
	}

	s.file = file
	s.size = size
	s.contentType = ContentTypeFor(path)
	return s, nil
}

// FromResult prepares the stream for a download result
func FromResult(result *model.DownloadResult, asciiOnly bool) (*Stream, error) {
	return Prepare(result.FilePath, result.Filename, result.TempFiles, asciiOnly)
}

// Filename returns the cleaned display filename
func (s *Stream) Filename() string {
	return s.filename
}

// Size returns the file size in bytes
func (s *Stream) Size() int64 {
	return s.size
}

// ContentType returns the MIME type guessed from the file extension
func (s *Stream) ContentType() string {
	return s.contentType
}

// ContentDisposition returns the attachment header with an RFC 5987 encoded name
func (s *Stream) ContentDisposition() string {
	return dispositionPrefix + EncodeRFC5987(s.filename)
}

// SetHeaders writes the framing headers for the stream
func (s *Stream) SetHeaders(h http.Header) {
	h.Set(HeaderContentType, s.contentType)
	h.Set(HeaderContentLength, strconv.FormatInt(s.size, 10))
	h.Set(HeaderContentDisposition, s.ContentDisposition())
	h.Set(HeaderFilename, s.filename)
}

// ServeHTTP streams the file and cleans up, whether or not the client read it all
func (s *Stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer s.Close()

	s.SetHeaders(w.Header())
	w.WriteHeader(http.StatusOK)

	written, err := s.Copy(r.Context(), w)
	if err != nil {
		log.Printf("[serve] %s abandoned after %d/%d bytes: %v", s.filename, written, s.size, err)
		return
	}
	log.Printf("[serve] %s sent %d bytes", s.filename, written)
}

// Copy writes the file to w in ChunkSize pieces, stopping when ctx is done
func (s *Stream) Copy(ctx context.Context, w io.Writer) (int64, error) {
	if s.file == nil {
		return 0, os.ErrClosed
	}

	flusher, _ := w.(http.Flusher)
	buf := make([]byte, ChunkSize)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, readErr := s.file.Read(buf)
		if n > 0 {
			m, err := w.Write(buf[:n])
			written += int64(m)
			if err != nil {
				return written, err
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}

// Close releases the file and deletes it with every temp file.
// Deletion failures are logged and dropped.
func (s *Stream) Close() error {
	s.once.Do(func() {
		if s.file != nil {
			s.file.Close()
		}
		paths := append([]string{s.path}, s.tempFiles...)
		if err := platform.RemoveFiles(paths...); err != nil {
			log.Printf("[serve] cleanup incomplete for %s: %v", s.path, err)
		}
	})
	return nil
}

// ContentTypeFor guesses the MIME type from the extension, defaulting to video/mp4
func ContentTypeFor(path string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return DefaultContentType
}

// EncodeRFC5987 percent-encodes every byte outside the attr-char set
func EncodeRFC5987(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}
