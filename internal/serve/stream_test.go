package serve

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/ytget/yt-downloader-api/internal/model"
)

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, bytes.Repeat([]byte{'x'}, size), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertRemoved(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("Expected %s to be deleted", p)
		}
	}
}

func TestServeHTTP_StreamsAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	size := 3*ChunkSize + 517
	path := writeFile(t, dir, "Clip.mp4", size)
	video := writeFile(t, dir, "Clip_video.mp4", 10)
	audio := writeFile(t, dir, "Clip_audio.mp4", 10)

	stream, err := Prepare(path, "Clip.mp4", []string{video, audio}, true)
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	rec := httptest.NewRecorder()
	stream.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/download/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(HeaderContentLength); got != strconv.Itoa(size) {
		t.Errorf("Content-Length = %s, expected %d", got, size)
	}
	if rec.Body.Len() != size {
		t.Errorf("Body length = %d, expected %d", rec.Body.Len(), size)
	}
	if got := rec.Header().Get(HeaderContentDisposition); got != "attachment; filename*=UTF-8''Clip.mp4" {
		t.Errorf("Content-Disposition = %s", got)
	}
	if got := rec.Header().Get(HeaderFilename); got != "Clip.mp4" {
		t.Errorf("X-Filename = %s", got)
	}
	assertRemoved(t, path, video, audio)
}

type failingWriter struct {
	header http.Header
	writes int
}

func (w *failingWriter) Header() http.Header { return w.header }
func (w *failingWriter) WriteHeader(int)     {}
func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.writes > 1 {
		return 0, errors.New("broken pipe")
	}
	return len(p), nil
}

func TestServeHTTP_AbandonedStreamStillCleansUp(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Clip.mp4", 4*ChunkSize)
	temp := writeFile(t, dir, "Clip_video.mp4", 1)

	stream, err := Prepare(path, "Clip.mp4", []string{temp}, true)
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	w := &failingWriter{header: http.Header{}}
	stream.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

	if w.writes != 2 {
		t.Errorf("Expected the stream to stop at the failed write, got %d writes", w.writes)
	}
	assertRemoved(t, path, temp)
}

func TestCopy_StopsOnCancelledContext(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Clip.mp4", ChunkSize)
	stream, err := Prepare(path, "Clip.mp4", nil, true)
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	n, err := stream.Copy(ctx, &buf)
	if !errors.Is(err, context.Canceled) || n != 0 {
		t.Errorf("Copy() = (%d, %v), expected (0, context.Canceled)", n, err)
	}
}

func TestClose_WithoutServingRemovesFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Clip.mp4", 5)
	stream, err := Prepare(path, "Clip.mp4", []string{filepath.Join(dir, "gone.mp4")}, true)
	if err != nil {
		t.Fatal(err)
	}

	stream.Close()
	stream.Close()
	assertRemoved(t, path)

	if _, err := stream.Copy(context.Background(), &bytes.Buffer{}); err == nil {
		t.Error("Copy() after Close should fail")
	}
}

func TestPrepare_MissingFile(t *testing.T) {
	dir := t.TempDir()
	temp := writeFile(t, dir, "Clip_audio.mp4", 1)

	_, err := Prepare(filepath.Join(dir, "missing.mp4"), "missing.mp4", []string{temp}, true)
	f, ok := model.AsFailure(err)
	if !ok || f.Kind != model.FailureIO {
		t.Fatalf("Expected IO failure, got %v", err)
	}
	assertRemoved(t, temp)
}

func TestPrepare_CleansDisplayName(t *testing.T) {
	path := writeFile(t, t.TempDir(), "x.mp4", 1)
	stream, err := Prepare(path, "Café: Live", nil, false)
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()

	if stream.Filename() != "Café_ Live.mp4" {
		t.Errorf("Filename() = %q", stream.Filename())
	}
	if got := stream.ContentDisposition(); got != "attachment; filename*=UTF-8''Caf%C3%A9_%20Live.mp4" {
		t.Errorf("ContentDisposition() = %q", got)
	}
}

func TestContentTypeFor(t *testing.T) {
	if got := ContentTypeFor("/d/file.unknownext"); got != DefaultContentType {
		t.Errorf("ContentTypeFor(unknown) = %s, expected %s", got, DefaultContentType)
	}
	if got := ContentTypeFor("/d/file"); got != DefaultContentType {
		t.Errorf("ContentTypeFor(no ext) = %s, expected %s", got, DefaultContentType)
	}
	if got := ContentTypeFor("/d/file.json"); got != "application/json" {
		t.Errorf("ContentTypeFor(.json) = %s", got)
	}
}

func TestEncodeRFC5987(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain.mp4", "plain.mp4"},
		{"a b.mp4", "a%20b.mp4"},
		{"50%;x=y.mp4", "50%25%3Bx%3Dy.mp4"},
		{"ü.mp4", "%C3%BC.mp4"},
	}
	for _, tt := range tests {
		if got := EncodeRFC5987(tt.in); got != tt.want {
			t.Errorf("EncodeRFC5987(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}
