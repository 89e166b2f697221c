package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"lilibox/models"
)

var (
	// ErrNotInitialized means no valid Drive credential was loaded at startup.
	ErrNotInitialized = errors.New("google drive not initialized")
	// ErrNotFound means Drive reports no file for the requested id.
	ErrNotFound = errors.New("file not found")
)

// listPageSize is the page size for folder listings. Drive caps at 1000.
const listPageSize = 1000

// FileInfo is the metadata subset the streaming proxy needs.
type FileInfo struct {
	Name     string
	MimeType string
	Size     int64 // 0 when Drive does not report a size
}

// ContentStream is one media download from Drive. Body must be closed by the
// caller; cancelling the request context aborts the transfer.
type ContentStream struct {
	Body          io.ReadCloser
	Status        int
	Header        http.Header
	ContentLength int64
}

// Service is a read-only Google Drive client scoped to media browsing.
// A nil Service is valid and reports ErrNotInitialized from every method,
// which is how an unauthenticated process surfaces upstream unavailability.
type Service struct {
	srv *drivev3.Service
}

// New builds a Drive service from an authenticated HTTP client.
func New(ctx context.Context, client *http.Client, opts ...option.ClientOption) (*Service, error) {
	allOpts := append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	srv, err := drivev3.NewService(ctx, allOpts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Service{srv: srv}, nil
}

// ListMediaFiles lists the video and image files of a folder, ordered by
// name, following pagination to the end.
func (s *Service) ListMediaFiles(ctx context.Context, folderID string) ([]models.MediaEntry, error) {
	if s == nil || s.srv == nil {
		return nil, ErrNotInitialized
	}

	query := fmt.Sprintf("'%s' in parents and (mimeType contains 'video/' or mimeType contains 'image/')", folderID)
	var entries []models.MediaEntry
	pageToken := ""
	for {
		call := s.srv.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType, thumbnailLink, webViewLink, size, modifiedTime)").
			OrderBy("name").
			PageSize(listPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		list, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list files: %w", err)
		}
		for _, f := range list.Files {
			entries = append(entries, toMediaEntry(f))
		}
		if list.NextPageToken == "" {
			return entries, nil
		}
		pageToken = list.NextPageToken
	}
}

// GetFileMetadata fetches size, name and content type for one file.
func (s *Service) GetFileMetadata(ctx context.Context, fileID string) (FileInfo, error) {
	if s == nil || s.srv == nil {
		return FileInfo{}, ErrNotInitialized
	}

	f, err := s.srv.Files.Get(fileID).Fields("size, name, mimeType").Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return FileInfo{}, fmt.Errorf("%w: %s", ErrNotFound, fileID)
		}
		return FileInfo{}, fmt.Errorf("get file metadata: %w", err)
	}
	return FileInfo{Name: f.Name, MimeType: f.MimeType, Size: f.Size}, nil
}

// GetFileContent opens a media download for one file. A non-empty rangeHeader
// ("bytes=<start>-<end>") is forwarded to Drive verbatim so only that byte
// range crosses the wire.
func (s *Service) GetFileContent(ctx context.Context, fileID, rangeHeader string) (*ContentStream, error) {
	if s == nil || s.srv == nil {
		return nil, ErrNotInitialized
	}

	call := s.srv.Files.Get(fileID).Context(ctx)
	if rangeHeader != "" {
		call.Header().Set("Range", rangeHeader)
	}
	resp, err := call.Download()
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, fileID)
		}
		return nil, fmt.Errorf("download file content: %w", err)
	}
	return &ContentStream{
		Body:          resp.Body,
		Status:        resp.StatusCode,
		Header:        resp.Header,
		ContentLength: resp.ContentLength,
	}, nil
}

func toMediaEntry(f *drivev3.File) models.MediaEntry {
	entry := models.MediaEntry{
		ID:           f.Id,
		Name:         f.Name,
		MimeType:     f.MimeType,
		Thumbnail:    f.ThumbnailLink,
		WebViewLink:  f.WebViewLink,
		ModifiedTime: f.ModifiedTime,
	}
	if f.Size > 0 {
		size := f.Size
		entry.Size = &size
	}
	return entry
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
