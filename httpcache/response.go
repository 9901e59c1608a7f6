package httpcache

import (
	"net/http"

	"github.com/omalloc/rangevault/cachestream"
)

// Response is the HTTP-shaped cachestream.Response: an upstream or
// cache-served status, the allowlisted headers from Meta plus the
// Content-Length/Content-Range pair derived from this particular
// response's ResponseRange, and a body stream.
//
// Status is meaningful as-is only for a Passthrough result. For a Cache
// result the outer layer overwrites it with 200 or 206 once it knows the
// original request's range kind (see Service.Call).
type Response struct {
	Status  int
	Headers http.Header
	// Cached reports whether this response was served off the cache
	// (ServiceCache) rather than forwarded untouched (Passthrough).
	Cached bool
	body   cachestream.BodyStream
}

// IntoBody implements cachestream.Response.
func (r Response) IntoBody() cachestream.BodyStream { return r.body }

// FromParts is the cachestream.Factory[Response] used to build every
// response served off the cache: it stamps the range-derived headers onto
// a clone of Meta's allowlisted headers and wraps the given body stream.
func FromParts(meta cachestream.Meta, rr cachestream.ResponseRange, body cachestream.BodyStream) Response {
	m, _ := meta.(Meta)

	headers := make(http.Header, len(m.Headers)+2)
	for k, v := range m.Headers {
		headers[k] = append([]string(nil), v...)
	}
	PutResponseRange(headers, rr)

	return Response{Status: m.Status, Headers: headers, Cached: true, body: body}
}

// NewUpstreamResponse wraps a raw upstream body stream verbatim, with its
// own status and headers. A Requester uses it both for a Passthrough
// result (forwarded as-is) and as the first response handed to
// cachestream.NewResponseBuilder on a Cache result (its body is teed into
// Blocks; this value itself is discarded once that tee starts).
func NewUpstreamResponse(status int, headers http.Header, body cachestream.BodyStream) Response {
	return Response{Status: status, Headers: headers, body: body}
}
