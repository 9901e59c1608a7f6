package httpcache

import (
	"context"
	"io"
	"net/http"

	"github.com/omalloc/rangevault/cachestream"
)

// sliceStream is an in-memory BodyStream over a byte slice.
type sliceStream struct {
	data []byte
	pos  int
}

func newSliceStream(data []byte) *sliceStream { return &sliceStream{data: data} }

func (s *sliceStream) Next(ctx context.Context) (cachestream.Chunk, error) {
	if s.pos >= len(s.data) {
		return nil, io.EOF
	}
	chunk := s.data[s.pos:]
	s.pos = len(s.data)
	return chunk, nil
}

func (s *sliceStream) Close() error { return nil }

func readAllBody(body cachestream.BodyStream) []byte {
	var buf []byte
	ctx := context.Background()
	for {
		chunk, err := body.Next(ctx)
		if err != nil {
			break
		}
		buf = append(buf, chunk...)
	}
	return buf
}

// fakeResource is one upstream resource a fakeBackend can serve.
type fakeResource struct {
	body        []byte
	headers     http.Header
	passthrough bool
}

// fakeBackend is a cachestream.RequestBackend[string, Response] standing
// in for proxy.Proxy in these tests: it applies request-range clipping
// and response-range/meta rendering exactly as a real upstream transport
// would, without any network I/O.
type fakeBackend struct {
	resources map[string]fakeResource
	fetches   map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{resources: map[string]fakeResource{}, fetches: map[string]int{}}
}

func (b *fakeBackend) set(key string, res fakeResource) { b.resources[key] = res }

func (b *fakeBackend) CreateForKey(key string) cachestream.Requester[Response] {
	return &fakeRequester{backend: b, key: key}
}

type fakeRequester struct {
	backend *fakeBackend
	key     string
}

func (r *fakeRequester) Fetch(ctx context.Context, rng cachestream.RequestRange) (cachestream.RequesterStatus[Response], error) {
	r.backend.fetches[r.key]++
	res := r.backend.resources[r.key]

	if res.passthrough {
		return cachestream.RequesterStatus[Response]{
			Kind:     cachestream.StatusPassthrough,
			Response: NewUpstreamResponse(http.StatusForbidden, res.headers, newSliceStream(res.body)),
		}, nil
	}

	size := len(res.body)
	start, end := rng.Clip(size)

	bytesRange := cachestream.FromTo(start, end)
	if rng.Kind == cachestream.RangeNone {
		bytesRange = cachestream.NoRange()
	}

	meta := collectMeta(http.StatusOK, res.headers)

	return cachestream.RequesterStatus[Response]{
		Kind:          cachestream.StatusCache,
		Response:      Response{Status: http.StatusOK, body: newSliceStream(res.body[start:end])},
		ResponseRange: cachestream.ResponseRange{BytesLen: size, BytesRange: bytesRange},
		Meta:          meta,
	}, nil
}
