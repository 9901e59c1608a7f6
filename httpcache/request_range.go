package httpcache

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/omalloc/rangevault/cachestream"
)

// ErrRangeInvalid means the incoming Range header could not be decoded into
// a single cachestream.RequestRange: absent units, a multi-range list, or a
// from-to pair with start > end. The outer layer synthesizes a 416 for it.
var ErrRangeInvalid = errors.New("httpcache: range header invalid")

const rangeUnit = "bytes="

// ParseRequestRange decodes the Range header into a cachestream.RequestRange.
// No header present → RequestRange::None. Multi-range lists and non-bytes
// units are rejected rather than resolved, per spec §4.I: this adapter
// serves single ranges only.
func ParseRequestRange(h http.Header) (cachestream.RequestRange, error) {
	header := h.Get("Range")
	if header == "" {
		return cachestream.NoRange(), nil
	}

	if !strings.HasPrefix(header, rangeUnit) {
		return cachestream.RequestRange{}, ErrRangeInvalid
	}

	spec := header[len(rangeUnit):]
	if strings.Contains(spec, ",") {
		return cachestream.RequestRange{}, ErrRangeInvalid
	}

	start, end, found := strings.Cut(spec, "-")
	if !found {
		return cachestream.RequestRange{}, ErrRangeInvalid
	}

	switch {
	case start == "" && end == "":
		return cachestream.RequestRange{}, ErrRangeInvalid

	case start == "":
		// bytes=-n : last n bytes.
		n, err := strconv.Atoi(end)
		if err != nil || n < 0 {
			return cachestream.RequestRange{}, ErrRangeInvalid
		}
		return cachestream.Last(n), nil

	case end == "":
		// bytes=s- : from s to the end.
		s, err := strconv.Atoi(start)
		if err != nil || s < 0 {
			return cachestream.RequestRange{}, ErrRangeInvalid
		}
		return cachestream.AllFrom(s), nil

	default:
		// bytes=s-e : [s, e] inclusive, rendered as the half-open [s, e+1).
		s, errS := strconv.Atoi(start)
		e, errE := strconv.Atoi(end)
		if errS != nil || errE != nil || s < 0 || e < 0 || s > e {
			return cachestream.RequestRange{}, ErrRangeInvalid
		}
		return cachestream.FromTo(s, e+1), nil
	}
}
