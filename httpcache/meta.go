package httpcache

import "net/http"

// allowedHeaders is the set of upstream response headers preserved across
// a cache round-trip. Everything else (e.g. hop-by-hop headers, Date,
// Server) is dropped: it describes the upstream response, not the cached
// resource.
var allowedHeaders = []string{
	"Cache-Control",
	"Content-Disposition",
	"Content-Length",
	"Content-Range",
	"Content-Type",
}

// Meta is the cloneable per-resource metadata threaded through
// cachestream.Factory from the first upstream fetch to every later
// response built from the cache. It holds the upstream status line (for
// the Cache status kind it is always 2xx) and the allowlisted headers.
type Meta struct {
	Status  int
	Headers http.Header
}

// CollectMeta is the exported form of collectMeta, for transport
// collaborators (e.g. proxy.Backend) building a Meta outside this
// package's own Factory.
func CollectMeta(status int, src http.Header) Meta { return collectMeta(status, src) }

// collectMeta copies the allowlisted headers out of an upstream response,
// discarding Content-Length and Content-Range: those describe the range
// that was actually fetched, and are re-derived per-response by
// PutResponseRange from the ResponseRange each ResponseBuilder.Stream call
// produces.
func collectMeta(status int, src http.Header) Meta {
	headers := make(http.Header, len(allowedHeaders))
	for _, key := range allowedHeaders {
		switch key {
		case "Content-Length", "Content-Range":
			continue
		default:
			if v := src.Values(key); len(v) > 0 {
				headers[key] = append([]string(nil), v...)
			}
		}
	}
	return Meta{Status: status, Headers: headers}
}
