package streaming

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"lilibox/services/drive"
)

// sniffLen is how many leading bytes are read for content-type detection
// when Drive reports a generic type.
const sniffLen = 3072

// fileSource is the slice of the Drive client the proxy consumes.
type fileSource interface {
	GetFileMetadata(ctx context.Context, fileID string) (drive.FileInfo, error)
	GetFileContent(ctx context.Context, fileID, rangeHeader string) (*drive.ContentStream, error)
}

// DriveProvider streams file content out of Google Drive with correct range
// semantics. It never buffers a file: full-file and ranged responses alike
// pipe the upstream body through, and cancelling ctx aborts the upstream
// transfer.
type DriveProvider struct {
	source fileSource
}

func NewDriveProvider(source fileSource) *DriveProvider {
	return &DriveProvider{source: source}
}

// Stream resolves metadata for the file, computes the effective range and
// opens the matching upstream download.
func (p *DriveProvider) Stream(ctx context.Context, req Request) (*Response, error) {
	info, err := p.source.GetFileMetadata(ctx, req.FileID)
	if err != nil {
		return nil, mapDriveErr(err)
	}
	if info.Size <= 0 {
		return nil, fmt.Errorf("file %s has no reported size", req.FileID)
	}

	headers := baseHeaders(info)

	if req.RangeHeader == "" {
		content, err := p.source.GetFileContent(ctx, req.FileID, "")
		if err != nil {
			return nil, mapDriveErr(err)
		}
		headers.Set("Content-Length", strconv.FormatInt(info.Size, 10))
		body := content.Body
		// Label generic provider types with the sniffed type; the bytes
		// themselves are forwarded untouched.
		if isGenericMime(headers.Get("Content-Type")) {
			body = sniffContentType(headers, body, info.Name)
		}
		return &Response{
			Status:        http.StatusOK,
			Headers:       headers,
			Body:          body,
			ContentLength: info.Size,
		}, nil
	}

	rng, err := ParseRange(req.RangeHeader, info.Size)
	if err != nil {
		return nil, err
	}
	content, err := p.source.GetFileContent(ctx, req.FileID, rng.RequestHeader())
	if err != nil {
		return nil, mapDriveErr(err)
	}
	headers.Set("Content-Range", rng.ContentRange(info.Size))
	headers.Set("Content-Length", strconv.FormatInt(rng.Length(), 10))
	return &Response{
		Status:        http.StatusPartialContent,
		Headers:       headers,
		Body:          content.Body,
		ContentLength: rng.Length(),
	}, nil
}

// baseHeaders builds the headers shared by full and ranged responses.
// Content per file id is immutable, hence the year-long cache directive.
func baseHeaders(info drive.FileInfo) http.Header {
	h := make(http.Header)
	h.Set("Content-Type", ResponseContentType(info.MimeType, info.Name))
	h.Set("Accept-Ranges", "bytes")
	h.Set("Cache-Control", "public, max-age=31536000")
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Headers", "Range")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", info.Name))
	return h
}

// ResponseContentType decides the declared content type for a file. Matroska
// containers are labelled video/mp4 so browsers accept them; this is a label
// override only, the stream is not transcoded.
func ResponseContentType(mimeType, name string) string {
	if mimeType == "video/x-matroska" || strings.HasSuffix(strings.ToLower(name), ".mkv") {
		return "video/mp4"
	}
	return mimeType
}

func isGenericMime(mimeType string) bool {
	switch mimeType {
	case "", "application/octet-stream", "binary/octet-stream":
		return true
	}
	return false
}

// sniffContentType reads the first bytes of body, detects the real content
// type and re-chains the consumed prefix so the caller still streams the
// whole file. The detected type goes through the same Matroska relabelling
// as provider-reported types.
func sniffContentType(headers http.Header, body io.ReadCloser, name string) io.ReadCloser {
	buf := make([]byte, sniffLen)
	n, _ := io.ReadFull(body, buf)
	if n > 0 {
		detected := mimetype.Detect(buf[:n]).String()
		headers.Set("Content-Type", ResponseContentType(detected, name))
	}
	return &prefixedReadCloser{
		Reader: io.MultiReader(bytes.NewReader(buf[:n]), body),
		closer: body,
	}
}

type prefixedReadCloser struct {
	io.Reader
	closer io.Closer
}

func (p *prefixedReadCloser) Close() error { return p.closer.Close() }

func mapDriveErr(err error) error {
	switch {
	case errors.Is(err, drive.ErrNotInitialized):
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	case errors.Is(err, drive.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
