package httpcache

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCallGetFullBody(t *testing.T) {
	backend := newFakeBackend()
	backend.set("/x", fakeResource{body: []byte("hello world"), headers: http.Header{"Content-Type": {"text/plain"}}})
	svc := NewService(backend, 1<<20)

	resp, err := svc.Call(context.Background(), http.MethodGet, "/x", http.Header{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "text/plain", resp.Headers.Get("Content-Type"))
	assert.Equal(t, "11", resp.Headers.Get("Content-Length"))
	assert.Equal(t, "hello world", string(readAllBody(resp.body)))
}

func TestServiceCallRangedRequestIs206(t *testing.T) {
	backend := newFakeBackend()
	backend.set("/x", fakeResource{body: []byte("hello world")})
	svc := NewService(backend, 1<<20)

	resp, err := svc.Call(context.Background(), http.MethodGet, "/x", http.Header{"Range": {"bytes=0-4"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusPartialContent, resp.Status)
	assert.Equal(t, "bytes 0-4/11", resp.Headers.Get("Content-Range"))
	assert.Equal(t, "hello", string(readAllBody(resp.body)))
}

func TestServiceCallHeadSuppressesBody(t *testing.T) {
	backend := newFakeBackend()
	backend.set("/x", fakeResource{body: []byte("hello world")})
	svc := NewService(backend, 1<<20)

	resp, err := svc.Call(context.Background(), http.MethodHead, "/x", http.Header{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "11", resp.Headers.Get("Content-Length"))
	assert.Empty(t, readAllBody(resp.body))
}

func TestServiceCallPassthroughKeepsOwnStatus(t *testing.T) {
	backend := newFakeBackend()
	backend.set("/x", fakeResource{body: []byte("nope"), passthrough: true})
	svc := NewService(backend, 1<<20)

	resp, err := svc.Call(context.Background(), http.MethodGet, "/x", http.Header{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.Status)
	assert.Equal(t, "nope", string(readAllBody(resp.body)))
}

func TestServiceCallMethodNotAllowed(t *testing.T) {
	backend := newFakeBackend()
	svc := NewService(backend, 1<<20)

	_, err := svc.Call(context.Background(), http.MethodPost, "/x", http.Header{})
	assert.ErrorIs(t, err, ErrMethodNotAllowed)
}

func TestServiceCallInvalidRangeRejectedBeforeFetch(t *testing.T) {
	backend := newFakeBackend()
	backend.set("/x", fakeResource{body: []byte("hello world")})
	svc := NewService(backend, 1<<20)

	_, err := svc.Call(context.Background(), http.MethodGet, "/x", http.Header{"Range": {"bytes=5-2"}})
	assert.ErrorIs(t, err, ErrRangeInvalid)
	assert.Equal(t, 0, backend.fetches["/x"])
}
