// Package streaming implements the range-aware video streaming proxy. It
// translates a client byte-range request into a range request against the
// storage provider and hands back a fully shaped HTTP response (status,
// headers, body stream) without buffering file content.
package streaming

import (
	"context"
	"errors"
	"io"
	"net/http"
)

var (
	// ErrProviderUnavailable means the storage provider has no valid credential.
	ErrProviderUnavailable = errors.New("storage provider unavailable")
	// ErrNotFound means the provider reports no file for the requested id.
	ErrNotFound = errors.New("file not found")
	// ErrRangeNotSatisfiable means the Range header was malformed or out of
	// bounds for the file.
	ErrRangeNotSatisfiable = errors.New("requested range not satisfiable")
)

// Request identifies one file to stream plus the client's raw Range header
// (empty when the client asked for the whole file).
type Request struct {
	FileID      string
	RangeHeader string
}

// Response is a ready-to-send streaming response. Body is the upstream byte
// stream; the caller must close it. ContentLength is the exact body length.
type Response struct {
	Status        int
	Headers       http.Header
	Body          io.ReadCloser
	ContentLength int64
}

// Provider produces streaming responses for file requests.
type Provider interface {
	Stream(ctx context.Context, req Request) (*Response, error)
}
