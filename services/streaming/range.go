package streaming

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is a resolved inclusive byte range within a file of known size.
// Invariant: 0 <= Start <= End < size.
type Range struct {
	Start int64
	End   int64
}

// Length returns the number of bytes the range covers.
func (r Range) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange formats the Content-Range header value for a file of the
// given size.
func (r Range) ContentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size)
}

// RequestHeader formats the Range request header for the upstream fetch.
func (r Range) RequestHeader() string {
	return fmt.Sprintf("bytes=%d-%d", r.Start, r.End)
}

// ParseRange resolves a client Range header ("bytes=<start>-<end>", end
// optional) against a file size. The start is required and must fall inside
// the file; an end beyond the file is clamped to size-1. Anything malformed
// or out of bounds yields ErrRangeNotSatisfiable.
func ParseRange(header string, size int64) (Range, error) {
	spec, ok := strings.CutPrefix(strings.TrimSpace(header), "bytes=")
	if !ok {
		return Range{}, fmt.Errorf("%w: %q", ErrRangeNotSatisfiable, header)
	}
	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok {
		return Range{}, fmt.Errorf("%w: %q", ErrRangeNotSatisfiable, header)
	}

	start, err := strconv.ParseInt(strings.TrimSpace(startStr), 10, 64)
	if err != nil || start < 0 || start >= size {
		return Range{}, fmt.Errorf("%w: start %q outside 0-%d", ErrRangeNotSatisfiable, startStr, size-1)
	}

	end := size - 1
	if s := strings.TrimSpace(endStr); s != "" {
		end, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Range{}, fmt.Errorf("%w: %q", ErrRangeNotSatisfiable, header)
		}
		if end > size-1 {
			end = size - 1
		}
	}
	if end < start {
		return Range{}, fmt.Errorf("%w: end %d before start %d", ErrRangeNotSatisfiable, end, start)
	}

	return Range{Start: start, End: end}, nil
}
