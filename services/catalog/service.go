package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"

	"github.com/sourcegraph/conc/pool"

	"lilibox/models"
	"lilibox/services/drive"
)

// ErrUpstreamUnavailable indicates the storage provider is unauthenticated or
// unreachable. Any other provider failure is wrapped as a plain upstream error.
var ErrUpstreamUnavailable = errors.New("storage provider unavailable")

// maxEnrichWorkers bounds concurrent TMDB lookups within one catalog request.
const maxEnrichWorkers = 5

// storageProvider lists the raw media files of a folder.
type storageProvider interface {
	ListMediaFiles(ctx context.Context, folderID string) ([]models.MediaEntry, error)
}

// metadataProvider resolves a show name to its best-match metadata.
// A nil result with nil error means no match.
type metadataProvider interface {
	SearchShow(ctx context.Context, name string) (*models.ShowMetadata, error)
}

// Service orchestrates the catalog pipeline: list from Drive, parse and group
// file names, enrich each show from TMDB. Every call re-fetches from the
// provider; there is no server-side cache, so a refresh always observes live
// upstream state.
type Service struct {
	drive    storageProvider
	tmdb     metadataProvider
	folderID string
}

func NewService(driveSvc storageProvider, tmdbSvc metadataProvider, folderID string) *Service {
	return &Service{drive: driveSvc, tmdb: tmdbSvc, folderID: folderID}
}

// ListCatalog returns the fully grouped and enriched catalog. Grouping is
// all-or-nothing; enrichment failures are isolated per show and surface only
// as absent metadata.
func (s *Service) ListCatalog(ctx context.Context) ([]*models.ShowGroup, error) {
	entries, err := s.drive.ListMediaFiles(ctx, s.folderID)
	if err != nil {
		if isUnavailable(err) {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
		return nil, fmt.Errorf("list media files: %w", err)
	}

	groups := Group(entries)
	s.enrich(ctx, groups)
	return groups, nil
}

// enrich attaches TMDB metadata to every group except the Other Media
// fallback, one lookup per distinct show. Lookups run concurrently; a failed
// or empty lookup leaves that group's metadata nil and never aborts the rest.
func (s *Service) enrich(ctx context.Context, groups []*models.ShowGroup) {
	if s.tmdb == nil {
		return
	}

	p := pool.New().WithMaxGoroutines(maxEnrichWorkers)
	for _, group := range groups {
		if group.ShowName == models.OtherMediaGroup {
			continue
		}
		p.Go(func() {
			meta, err := s.tmdb.SearchShow(ctx, group.ShowName)
			if err != nil {
				log.Printf("[catalog] tmdb lookup failed show=%q err=%v", group.ShowName, err)
				return
			}
			if meta == nil {
				log.Printf("[catalog] no tmdb match show=%q", group.ShowName)
				return
			}
			group.Metadata = meta
		})
	}
	p.Wait()
}

// isUnavailable reports whether an error means the provider could not be
// reached at all, as opposed to answering with a failure.
func isUnavailable(err error) bool {
	if errors.Is(err, drive.ErrNotInitialized) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
