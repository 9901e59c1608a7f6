package cachestream_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/omalloc/rangevault/cachestream"
)

func at(seconds int64) time.Time {
	return time.Unix(seconds, 0)
}

func TestSizedTTLCacheTTLExpire(t *testing.T) {
	c := cachestream.NewSizedTTLCache[string, int](0)
	expireAt := at(1)

	c.GetOrInsert(at(0), "0", cachestream.NewEntry(1, &expireAt, 0))

	v, ok := c.Get(at(0), "0")
	assert.True(t, ok)
	assert.Equal(t, 0, v)

	_, ok = c.Get(at(2), "0")
	assert.False(t, ok)
}

func TestSizedTTLCacheCapacityBound(t *testing.T) {
	c := cachestream.NewSizedTTLCache[string, int](0)

	c.GetOrInsert(at(0), "0", cachestream.NewEntry(1, nil, 0))
	c.GetOrInsert(at(0), "1", cachestream.NewEntry(1, nil, 1))

	_, ok := c.Get(at(0), "0")
	assert.False(t, ok)

	v, ok := c.Get(at(0), "1")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}
