package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/api/option"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := New(context.Background(), srv.Client(),
		option.WithEndpoint(srv.URL))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return svc
}

func TestNilServiceReportsNotInitialized(t *testing.T) {
	var svc *Service
	ctx := context.Background()

	if _, err := svc.ListMediaFiles(ctx, "folder"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ListMediaFiles err = %v, want ErrNotInitialized", err)
	}
	if _, err := svc.GetFileMetadata(ctx, "f1"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("GetFileMetadata err = %v, want ErrNotInitialized", err)
	}
	if _, err := svc.GetFileContent(ctx, "f1", ""); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("GetFileContent err = %v, want ErrNotInitialized", err)
	}
}

func TestListMediaFilesPagination(t *testing.T) {
	var queries []string
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "" {
			json.NewEncoder(w).Encode(map[string]any{
				"nextPageToken": "page2",
				"files": []map[string]any{
					{"id": "a", "name": "Show S01E01.mkv", "mimeType": "video/x-matroska", "size": "1234"},
				},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"files": []map[string]any{
				{"id": "b", "name": "photo.jpg", "mimeType": "image/jpeg"},
			},
		})
	}))

	entries, err := svc.ListMediaFiles(context.Background(), "folder123")
	if err != nil {
		t.Fatalf("ListMediaFiles failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID != "a" || entries[1].ID != "b" {
		t.Errorf("entry order = %s, %s; want a, b", entries[0].ID, entries[1].ID)
	}
	if entries[0].Size == nil || *entries[0].Size != 1234 {
		t.Errorf("entry a size = %v, want 1234", entries[0].Size)
	}
	if entries[1].Size != nil {
		t.Errorf("entry b size = %v, want nil for unreported size", *entries[1].Size)
	}

	wantQuery := "'folder123' in parents and (mimeType contains 'video/' or mimeType contains 'image/')"
	for i, q := range queries {
		if q != wantQuery {
			t.Errorf("page %d query = %q, want %q", i, q, wantQuery)
		}
	}
}

func TestGetFileMetadata(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"name": "movie.mp4", "mimeType": "video/mp4", "size": "5000"}`)
	}))

	info, err := svc.GetFileMetadata(context.Background(), "f1")
	if err != nil {
		t.Fatalf("GetFileMetadata failed: %v", err)
	}
	if info.Name != "movie.mp4" || info.MimeType != "video/mp4" || info.Size != 5000 {
		t.Errorf("info = %+v", info)
	}
}

func TestGetFileMetadataNotFound(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": {"code": 404, "message": "File not found"}}`)
	}))

	_, err := svc.GetFileMetadata(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetFileContentForwardsRange(t *testing.T) {
	const payload = "0123456789"
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("alt") != "media" {
			t.Errorf("alt = %q, want media", r.URL.Query().Get("alt"))
		}
		rangeHeader := r.Header.Get("Range")
		if rangeHeader != "bytes=2-5" {
			t.Errorf("Range = %q, want bytes=2-5", rangeHeader)
		}
		w.Header().Set("Content-Range", "bytes 2-5/10")
		w.WriteHeader(http.StatusPartialContent)
		w.Write([]byte(payload[2:6]))
	}))

	stream, err := svc.GetFileContent(context.Background(), "f1", "bytes=2-5")
	if err != nil {
		t.Fatalf("GetFileContent failed: %v", err)
	}
	defer stream.Body.Close()

	if stream.Status != http.StatusPartialContent {
		t.Errorf("Status = %d, want 206", stream.Status)
	}
}

func TestGetFileContentNotFound(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": {"code": 404, "message": "File not found"}}`)
	}))

	_, err := svc.GetFileContent(context.Background(), "missing", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
