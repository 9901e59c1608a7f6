package proxy

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/omalloc/rangevault/cachestream"
	"github.com/omalloc/rangevault/contrib/log"
	"github.com/omalloc/rangevault/httpcache"
	xhttp "github.com/omalloc/rangevault/pkg/x/http"
)

// Backend is a cachestream.RequestBackend[string, httpcache.Response]
// fronting a ReverseProxy: each cache key is an absolute request URL
// (scheme://host+path, as built by the server), not a bare path, and each
// Requester it hands out issues one collapsed GET to the selected
// upstream per fetch, translating the wire response into the shapes
// cachestream and httpcache expect.
type Backend struct {
	proxy              Proxy
	perResourceLimit   int
	collapseWaitMillis time.Duration
}

// NewBackend wires a Proxy into a RequestBackend. perResourceLimit bounds
// the total size (bytes) of a response this backend will mark cacheable;
// larger resources are served Passthrough regardless of cache-control.
func NewBackend(p Proxy, perResourceLimit int) *Backend {
	return &Backend{proxy: p, perResourceLimit: perResourceLimit, collapseWaitMillis: 50 * time.Millisecond}
}

// CreateForKey implements cachestream.RequestBackend.
func (b *Backend) CreateForKey(key string) cachestream.Requester[httpcache.Response] {
	return &requester{backend: b, path: key}
}

type requester struct {
	backend *Backend
	path    string
}

// Fetch implements cachestream.Requester: it issues one (possibly
// request-collapsed) GET to the upstream selected by the proxy, and
// classifies the result as Cache or Passthrough per spec §6.2's
// preconditions.
func (rq *requester) Fetch(ctx context.Context, rng cachestream.RequestRange) (cachestream.RequesterStatus[httpcache.Response], error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rq.path, nil)
	if err != nil {
		return cachestream.RequesterStatus[httpcache.Response]{}, err
	}
	httpcache.PutRequestRange(req.Header, rng)

	resp, err := rq.backend.proxy.Do(req, true, rq.backend.collapseWaitMillis)
	if err != nil {
		return cachestream.RequesterStatus[httpcache.Response]{}, err
	}
	xhttp.RemoveHopByHopHeaders(resp.Header)

	body := &httpBodyStream{body: resp.Body}

	passthrough := func() cachestream.RequesterStatus[httpcache.Response] {
		return cachestream.RequesterStatus[httpcache.Response]{
			Kind:     cachestream.StatusPassthrough,
			Response: httpcache.NewUpstreamResponse(resp.StatusCode, resp.Header, body),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return passthrough(), nil
	}

	responseRange, ok := httpcache.ParseResponseRange(resp.Header, rng)
	if !ok {
		return passthrough(), nil
	}

	if rq.backend.perResourceLimit > 0 && responseRange.BytesLen > rq.backend.perResourceLimit {
		return passthrough(), nil
	}

	cacheable, expireAt := httpcache.Cacheability(time.Now(), resp.Header.Get("Cache-Control"))
	if !cacheable {
		return passthrough(), nil
	}

	meta := httpcache.CollectMeta(resp.StatusCode, resp.Header)

	return cachestream.RequesterStatus[httpcache.Response]{
		Kind:          cachestream.StatusCache,
		Response:      httpcache.NewUpstreamResponse(resp.StatusCode, resp.Header, body),
		ResponseRange: responseRange,
		ExpireAt:      expireAt,
		Meta:          meta,
	}, nil
}

// httpBodyStream adapts an http.Response.Body into cachestream.BodyStream.
type httpBodyStream struct {
	body io.ReadCloser
	buf  [32 * 1024]byte
}

func (s *httpBodyStream) Next(ctx context.Context) (cachestream.Chunk, error) {
	n, err := s.body.Read(s.buf[:])
	if n > 0 {
		chunk := make([]byte, n)
		copy(chunk, s.buf[:n])
		if err != nil && err != io.EOF {
			log.Context(ctx).Errorf("upstream body read: %v", err)
		}
		return chunk, nil
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}

func (s *httpBodyStream) Close() error { return s.body.Close() }
