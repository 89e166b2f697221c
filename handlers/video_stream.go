package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"lilibox/services/streaming"
)

// VideoHandler proxies video content from the storage provider with range
// support so browsers can seek.
type VideoHandler struct {
	provider streaming.Provider
}

func NewVideoHandler(provider streaming.Provider) *VideoHandler {
	return &VideoHandler{provider: provider}
}

// StreamVideo handles GET /api/stream/{fileId}. The provider shapes the full
// response (status, headers, body); this handler only forwards it and maps
// errors to HTTP statuses. Once the body copy starts, an upstream failure
// simply truncates the response.
func (h *VideoHandler) StreamVideo(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileId"]
	rangeHeader := r.Header.Get("Range")
	log.Printf("[stream] file=%s range=%q", fileID, rangeHeader)

	resp, err := h.provider.Stream(r.Context(), streaming.Request{
		FileID:      fileID,
		RangeHeader: rangeHeader,
	})
	if err != nil {
		h.writeStreamError(w, fileID, err)
		return
	}
	defer resp.Body.Close()

	// Replace, never append: the CORS middleware already set
	// Access-Control-* on this response and duplicate values break browsers.
	hdr := w.Header()
	for key, values := range resp.Headers {
		hdr[key] = values
	}
	w.WriteHeader(resp.Status)

	if _, err := io.Copy(w, resp.Body); err != nil {
		// Headers are gone; the client sees a truncated body. Covers both
		// upstream failures and the client going away mid-stream.
		log.Printf("[stream] transfer ended early file=%s: %v", fileID, err)
	}
}

func (h *VideoHandler) writeStreamError(w http.ResponseWriter, fileID string, err error) {
	log.Printf("[stream] error file=%s: %v", fileID, err)
	w.Header().Set("Content-Type", "application/json")
	switch {
	case errors.Is(err, streaming.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "File not found"})
	case errors.Is(err, streaming.ErrRangeNotSatisfiable):
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		json.NewEncoder(w).Encode(map[string]string{"error": "Requested range not satisfiable"})
	case errors.Is(err, streaming.ErrProviderUnavailable):
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Google Drive not initialized"})
	default:
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "Failed to stream video",
			"details": err.Error(),
		})
	}
}
