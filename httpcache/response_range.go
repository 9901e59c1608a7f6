package httpcache

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/omalloc/rangevault/cachestream"
)

// ParseResponseRange computes a cachestream.ResponseRange from an upstream
// response's Content-Length and Content-Range headers, per spec §4.I:
//
//   - No Content-Length → not cacheable (ok is false).
//   - Content-Range presence must match requestRange != None; a mismatch
//     in either direction is not cacheable.
//   - A Content-Range missing its byte span or total is not cacheable.
func ParseResponseRange(h http.Header, requestRange cachestream.RequestRange) (rr cachestream.ResponseRange, ok bool) {
	hasRequestRange := requestRange.Kind != cachestream.RangeNone

	contentLength, err := strconv.Atoi(h.Get("Content-Length"))
	if err != nil || contentLength < 0 {
		return cachestream.ResponseRange{}, false
	}

	contentRange := h.Get("Content-Range")

	switch {
	case contentRange == "" && !hasRequestRange:
		return cachestream.ResponseRange{BytesLen: contentLength, BytesRange: cachestream.NoRange()}, true

	case contentRange == "" && hasRequestRange:
		// Request range but no response range: upstream ignored it.
		return cachestream.ResponseRange{}, false

	case contentRange != "" && !hasRequestRange:
		// Response range but no request range.
		return cachestream.ResponseRange{}, false
	}

	start, end, total, ok := parseContentRange(contentRange)
	if !ok {
		return cachestream.ResponseRange{}, false
	}

	return cachestream.ResponseRange{BytesLen: total, BytesRange: cachestream.FromTo(start, end)}, true
}

// parseContentRange parses "bytes start-end/total" into a half-open
// [start, end) span plus the resource's total length. Asterisks in place
// of either component (unsatisfied-length responses) fail the parse.
func parseContentRange(header string) (start, end, total int, ok bool) {
	rest, found := strings.CutPrefix(header, "bytes ")
	if !found {
		return 0, 0, 0, false
	}

	span, totalStr, found := strings.Cut(rest, "/")
	if !found || totalStr == "*" {
		return 0, 0, 0, false
	}

	startStr, endStr, found := strings.Cut(span, "-")
	if !found || startStr == "*" || endStr == "*" {
		return 0, 0, 0, false
	}

	s, errS := strconv.Atoi(startStr)
	e, errE := strconv.Atoi(endStr)
	t, errT := strconv.Atoi(totalStr)
	if errS != nil || errE != nil || errT != nil || s > e {
		return 0, 0, 0, false
	}

	return s, e + 1, t, true
}
