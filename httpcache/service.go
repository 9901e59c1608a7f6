package httpcache

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/omalloc/rangevault/cachestream"
)

// ErrMethodNotAllowed is returned for any method besides GET/HEAD. Only
// those two are meaningful against a cached, range-addressable resource.
var ErrMethodNotAllowed = errors.New("httpcache: method not allowed")

// Service wraps a cachestream.Service with the HTTP-specific glue spec
// §4.I describes as "reference": request-range decoding, response status
// shaping (200 vs 206), and HEAD body suppression. It owns no transport;
// RequestBackend supplies that.
type Service struct {
	inner *cachestream.Service[string, Response]
}

// NewService wires a RequestBackend[string, Response] into a Service with
// the given cache capacity in bytes.
func NewService(backend cachestream.RequestBackend[string, Response], capacityBytes int) *Service {
	return &Service{inner: cachestream.NewService[string, Response](backend, FromParts, capacityBytes)}
}

// Call is the HTTP adapter's entry point. method must be GET or HEAD; key
// is the resource's cache identifier (the server passes the absolute
// request URL, scheme://host+path, so the same path under two hosts is
// cached separately); headers carries
// the incoming Range header, if any.
//
// On success it returns a Response whose Status and body already reflect
// the outer HTTP shaping from spec §4.I: 200 for an unranged request, 206
// for a ranged one, Passthrough's own status left untouched, and an empty
// body for HEAD.
func (s *Service) Call(ctx context.Context, method, key string, headers http.Header) (Response, error) {
	if method != http.MethodGet && method != http.MethodHead {
		return Response{}, ErrMethodNotAllowed
	}

	rng, err := ParseRequestRange(headers)
	if err != nil {
		return Response{}, err
	}

	status, err := s.inner.Call(ctx, time.Now(), key, rng)
	if err != nil {
		return Response{}, err
	}

	response := status.Response
	if status.Kind == cachestream.ServiceCache {
		if rng.Kind == cachestream.RangeNone {
			response.Status = http.StatusOK
		} else {
			response.Status = http.StatusPartialContent
		}
	}

	if method == http.MethodHead {
		response.body = emptyBodyStream{}
	}

	return response, nil
}

// emptyBodyStream is the zero-chunk BodyStream substituted for a HEAD
// response's body.
type emptyBodyStream struct{}

func (emptyBodyStream) Next(ctx context.Context) (cachestream.Chunk, error) { return nil, io.EOF }
func (emptyBodyStream) Close() error                                       { return nil }
