package cachestream_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/omalloc/rangevault/cachestream"
)

// sliceStream is an in-memory BodyStream over a byte slice, chunked to
// exercise multi-chunk streaming rather than handing back the whole body in
// one Next call.
type sliceStream struct {
	data      []byte
	pos       int
	chunkSize int
}

func newSliceStream(data []byte) *sliceStream {
	return &sliceStream{data: data, chunkSize: 4}
}

func (s *sliceStream) Next(ctx context.Context) (cachestream.Chunk, error) {
	if s.pos >= len(s.data) {
		return nil, io.EOF
	}
	end := s.pos + s.chunkSize
	if end > len(s.data) {
		end = len(s.data)
	}
	chunk := s.data[s.pos:end]
	s.pos = end
	return chunk, nil
}

func (s *sliceStream) Close() error { return nil }

// fakeResponse is the test Response: a thin wrapper around a BodyStream,
// constructed either directly from resource bytes (by fakeRequester) or
// from an AdaptiveReader's stream (by the shared factory).
type fakeResponse struct {
	stream cachestream.BodyStream
}

func newFakeResponse(body []byte) fakeResponse {
	return fakeResponse{stream: newSliceStream(body)}
}

func (r fakeResponse) IntoBody() cachestream.BodyStream { return r.stream }

func fakeFactory(meta cachestream.Meta, rr cachestream.ResponseRange, body cachestream.BodyStream) fakeResponse {
	return fakeResponse{stream: body}
}

func readAll(t *testing.T, r fakeResponse) []byte {
	t.Helper()
	var buf []byte
	body := r.IntoBody()
	ctx := context.Background()
	for {
		chunk, err := body.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatalf("unexpected stream error: %v", err)
		}
		buf = append(buf, chunk...)
	}
	return buf
}

// resource is one entry a fakeBackend can serve.
type resource struct {
	body        []byte
	passthrough bool
	expireAt    *time.Time
}

// fakeBackend is a RequestBackend[string, fakeResponse] that counts fetches
// per key, for asserting "no new upstream fetch" on cache hits.
type fakeBackend struct {
	mu        sync.Mutex
	resources map[string]resource
	fetches   map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{resources: map[string]resource{}, fetches: map[string]int{}}
}

func (b *fakeBackend) set(key string, res resource) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resources[key] = res
}

func (b *fakeBackend) fetchCount(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fetches[key]
}

func (b *fakeBackend) CreateForKey(key string) cachestream.Requester[fakeResponse] {
	return &fakeRequester{backend: b, key: key}
}

type fakeRequester struct {
	backend *fakeBackend
	key     string
}

func (r *fakeRequester) Fetch(ctx context.Context, rng cachestream.RequestRange) (cachestream.RequesterStatus[fakeResponse], error) {
	r.backend.mu.Lock()
	res, ok := r.backend.resources[r.key]
	r.backend.fetches[r.key]++
	r.backend.mu.Unlock()

	if !ok {
		return cachestream.RequesterStatus[fakeResponse]{}, fmt.Errorf("no such resource %q", r.key)
	}

	if res.passthrough {
		return cachestream.RequesterStatus[fakeResponse]{
			Kind:     cachestream.StatusPassthrough,
			Response: newFakeResponse(res.body),
		}, nil
	}

	size := len(res.body)
	start, end := rng.Clip(size)

	rr := cachestream.ResponseRange{BytesLen: size, BytesRange: cachestream.FromTo(start, end)}
	if rng.Kind == cachestream.RangeNone {
		rr.BytesRange = cachestream.NoRange()
	}

	return cachestream.RequesterStatus[fakeResponse]{
		Kind:          cachestream.StatusCache,
		Response:      newFakeResponse(res.body[start:end]),
		ResponseRange: rr,
		ExpireAt:      res.expireAt,
	}, nil
}
