package httpcache

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omalloc/rangevault/cachestream"
)

func TestPutRequestRangeAllFrom(t *testing.T) {
	h := http.Header{}
	PutRequestRange(h, cachestream.AllFrom(6))
	assert.Equal(t, "bytes=6-", h.Get("Range"))
}

func TestPutRequestRangeFromTo(t *testing.T) {
	h := http.Header{}
	PutRequestRange(h, cachestream.FromTo(0, 5))
	assert.Equal(t, "bytes=0-4", h.Get("Range"))
}

func TestPutRequestRangeLast(t *testing.T) {
	h := http.Header{}
	PutRequestRange(h, cachestream.Last(5))
	assert.Equal(t, "bytes=-5", h.Get("Range"))
}

func TestPutRequestRangeNoneLeavesHeaderUnset(t *testing.T) {
	h := http.Header{}
	PutRequestRange(h, cachestream.NoRange())
	assert.Empty(t, h.Get("Range"))
}

func TestPutResponseRangeNone(t *testing.T) {
	h := http.Header{}
	PutResponseRange(h, cachestream.ResponseRange{BytesLen: 11, BytesRange: cachestream.NoRange()})
	assert.Equal(t, "11", h.Get("Content-Length"))
	assert.Empty(t, h.Get("Content-Range"))
}

func TestPutResponseRangeFromTo(t *testing.T) {
	h := http.Header{}
	PutResponseRange(h, cachestream.ResponseRange{BytesLen: 11, BytesRange: cachestream.FromTo(0, 5)})
	assert.Equal(t, "5", h.Get("Content-Length"))
	assert.Equal(t, "bytes 0-4/11", h.Get("Content-Range"))
}
