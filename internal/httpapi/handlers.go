// Package httpapi exposes the video info and download endpoints over net/http.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/ytget/yt-downloader-api/internal/download"
	"github.com/ytget/yt-downloader-api/internal/metadata"
	"github.com/ytget/yt-downloader-api/internal/model"
	"github.com/ytget/yt-downloader-api/internal/platform"
	"github.com/ytget/yt-downloader-api/internal/serve"
)

// Routes
const (
	RouteVideoInfo = "/api/video-info/"
	RouteDownload  = "/api/download/"
	RouteHealth    = "/healthz"
)

// Request validation messages
const (
	MsgURLRequired      = "URL is required"
	MsgInvalidURL       = "Invalid URL format"
	MsgInvalidJSON      = "Invalid JSON in request body"
	MsgMethodNotAllowed = "Method not allowed"
	MsgServerError      = "Server error: %v"
	MsgDownloadFailed   = "Download failed: %v"

	maxBodyBytes = 1 << 20
)

// InfoResolver classifies a URL and resolves its metadata
type InfoResolver interface {
	Inspect(ctx context.Context, url string) (*metadata.Resolution, error)
}

type videoRequest struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
}

// VideoInfoResponse is the JSON body of the video info endpoint
type VideoInfoResponse struct {
	model.VideoInfo
	AvailableQualities []string `json:"available_qualities"`
}

// NewVideoInfoResponse shapes a resolution for output
func NewVideoInfoResponse(res *metadata.Resolution) VideoInfoResponse {
	return VideoInfoResponse{
		VideoInfo:          res.Info,
		AvailableQualities: res.AvailableQualities(),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the API routes
type Handler struct {
	info           InfoResolver
	downloader     download.Downloader
	asciiFilenames bool
}

// NewHandler creates the API handler
func NewHandler(info InfoResolver, downloader download.Downloader, asciiFilenames bool) *Handler {
	return &Handler{info: info, downloader: downloader, asciiFilenames: asciiFilenames}
}

// RegisterRoutes mounts every endpoint on mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc(RouteVideoInfo, postOnly(h.handleVideoInfo))
	mux.HandleFunc(RouteDownload, postOnly(h.handleDownload))
	mux.HandleFunc(RouteHealth, handleHealth)
}

func (h *Handler) handleVideoInfo(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	res, err := h.info.Inspect(r.Context(), req.URL)
	if err != nil {
		writeFailure(w, err, MsgServerError)
		return
	}

	writeJSON(w, http.StatusOK, NewVideoInfoResponse(res))
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	if req.Quality == "" {
		req.Quality = model.QualityBest.String()
	}

	result, err := h.downloader.Download(r.Context(), req.URL, req.Quality)
	if err != nil {
		writeFailure(w, err, MsgDownloadFailed)
		return
	}

	stream, err := serve.FromResult(result, h.asciiFilenames)
	if err != nil {
		writeFailure(w, err, MsgDownloadFailed)
		return
	}
	log.Printf("[http] serving %s (%d bytes) as %q", result.FilePath, stream.Size(), stream.Filename())
	stream.ServeHTTP(w, r)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func postOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeError(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

// decodeRequest parses and validates the JSON body. It writes the error
// response itself and returns false when the request is unusable.
func decodeRequest(w http.ResponseWriter, r *http.Request) (videoRequest, bool) {
	var req videoRequest
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, MsgInvalidJSON)
		return req, false
	}

	req.URL = strings.TrimSpace(req.URL)
	req.Quality = strings.TrimSpace(req.Quality)
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, MsgURLRequired)
		return req, false
	}
	if !platform.IsValidURL(req.URL) {
		writeError(w, http.StatusBadRequest, MsgInvalidURL)
		return req, false
	}
	return req, true
}

// StatusFor maps an error to its HTTP status
func StatusFor(err error) int {
	if f, ok := model.AsFailure(err); ok && f.Kind.IsClientError() {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeFailure reports a pipeline error. Failures carry their own message,
// anything else is wrapped with fallback.
func writeFailure(w http.ResponseWriter, err error, fallback string) {
	status := StatusFor(err)
	message := fmt.Sprintf(fallback, err)
	if f, ok := model.AsFailure(err); ok {
		message = f.Message
	}
	writeError(w, status, message)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[http] failed to write response: %v", err)
	}
}
