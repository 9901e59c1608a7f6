package httpcache

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omalloc/rangevault/cachestream"
)

func TestParseResponseRangeNoneRequestNoneResponse(t *testing.T) {
	h := http.Header{"Content-Length": {"11"}}
	rr, ok := ParseResponseRange(h, cachestream.NoRange())
	require.True(t, ok)
	assert.Equal(t, 11, rr.BytesLen)
	assert.Equal(t, cachestream.NoRange(), rr.BytesRange)
}

func TestParseResponseRangeMissingContentLengthNotCacheable(t *testing.T) {
	_, ok := ParseResponseRange(http.Header{}, cachestream.NoRange())
	assert.False(t, ok)
}

func TestParseResponseRangeMismatchResponseRangeWithoutRequestRange(t *testing.T) {
	h := http.Header{
		"Content-Length": {"5"},
		"Content-Range":  {"bytes 0-4/11"},
	}
	_, ok := ParseResponseRange(h, cachestream.NoRange())
	assert.False(t, ok)
}

func TestParseResponseRangeMismatchRequestRangeWithoutResponseRange(t *testing.T) {
	h := http.Header{"Content-Length": {"11"}}
	_, ok := ParseResponseRange(h, cachestream.FromTo(0, 5))
	assert.False(t, ok)
}

func TestParseResponseRangeFromTo(t *testing.T) {
	h := http.Header{
		"Content-Length": {"5"},
		"Content-Range":  {"bytes 0-4/11"},
	}
	rr, ok := ParseResponseRange(h, cachestream.FromTo(0, 5))
	require.True(t, ok)
	assert.Equal(t, 11, rr.BytesLen)
	assert.Equal(t, cachestream.FromTo(0, 5), rr.BytesRange)
}

func TestParseResponseRangeAsteriskTotalNotCacheable(t *testing.T) {
	h := http.Header{
		"Content-Length": {"5"},
		"Content-Range":  {"bytes 0-4/*"},
	}
	_, ok := ParseResponseRange(h, cachestream.FromTo(0, 5))
	assert.False(t, ok)
}
