package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"lilibox/models"
	"lilibox/services/catalog"
)

// catalogService lists the grouped, enriched media catalog.
type catalogService interface {
	ListCatalog(ctx context.Context) ([]*models.ShowGroup, error)
}

var _ catalogService = (*catalog.Service)(nil)

// MediaHandler serves the media catalog endpoints.
type MediaHandler struct {
	Catalog catalogService
}

func NewMediaHandler(svc catalogService) *MediaHandler {
	return &MediaHandler{Catalog: svc}
}

// ListMedia handles GET /api/media and GET /api/media/refresh. Both fetch
// live from Drive on every call; refresh exists only as a client convenience
// since there is no cache to invalidate.
func (h *MediaHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Catalog.ListCatalog(r.Context())
	if err != nil {
		log.Printf("[media] catalog fetch failed: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		if errors.Is(err, catalog.ErrUpstreamUnavailable) {
			json.NewEncoder(w).Encode(map[string]string{"error": "Google Drive not initialized"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to fetch media files"})
		return
	}

	if groups == nil {
		groups = []*models.ShowGroup{}
	}
	log.Printf("[media] catalog fetched shows=%d", len(groups))

	// Cache-busting headers so the browser always sees live upstream state.
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(groups)
}
