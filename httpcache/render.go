package httpcache

import (
	"net/http"
	"strconv"

	"github.com/omalloc/rangevault/cachestream"
)

// PutRequestRange sets the outgoing Range header for an upstream request
// from a cachestream.RequestRange, leaving it unset for RangeNone.
func PutRequestRange(h http.Header, rng cachestream.RequestRange) {
	switch rng.Kind {
	case cachestream.RangeAllFrom:
		h.Set("Range", "bytes="+strconv.Itoa(rng.Start)+"-")
	case cachestream.RangeFromTo:
		h.Set("Range", "bytes="+strconv.Itoa(rng.Start)+"-"+strconv.Itoa(rng.End-1))
	case cachestream.RangeLast:
		h.Set("Range", "bytes=-"+strconv.Itoa(rng.N))
	}
}

// PutResponseRange sets Content-Length (and Content-Range, for ranged
// responses) on an outgoing response from a cachestream.ResponseRange.
func PutResponseRange(h http.Header, rr cachestream.ResponseRange) {
	switch rr.BytesRange.Kind {
	case cachestream.RangeNone:
		putContentLength(h, rr.BytesLen)
	default:
		start, end := rr.BytesRange.Clip(rr.BytesLen)
		putContentRange(h, start, end, rr.BytesLen)
	}
}

func putContentLength(h http.Header, total int) {
	h.Set("Content-Length", strconv.Itoa(total))
}

func putContentRange(h http.Header, start, end, total int) {
	putContentLength(h, end-start)
	h.Set("Content-Range", "bytes "+strconv.Itoa(start)+"-"+strconv.Itoa(end-1)+"/"+strconv.Itoa(total))
}
