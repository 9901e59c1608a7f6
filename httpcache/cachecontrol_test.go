package httpcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheabilityAbsentHeader(t *testing.T) {
	now := time.Unix(0, 0)
	cacheable, expireAt := cacheability(now, "")
	assert.True(t, cacheable)
	assert.Nil(t, expireAt)
}

func TestCacheabilityNoStore(t *testing.T) {
	now := time.Unix(0, 0)
	cacheable, expireAt := cacheability(now, "no-store")
	assert.False(t, cacheable)
	assert.Nil(t, expireAt)
}

func TestCacheabilityNoCache(t *testing.T) {
	now := time.Unix(0, 0)
	cacheable, _ := cacheability(now, "no-cache")
	assert.False(t, cacheable)
}

func TestCacheabilityMaxAge(t *testing.T) {
	now := time.Unix(1000, 0)
	cacheable, expireAt := cacheability(now, "public, max-age=60")
	assert.True(t, cacheable)
	require.NotNil(t, expireAt)
	assert.Equal(t, now.Add(60*time.Second), *expireAt)
}

func TestCacheabilityNoMaxAgeNoExpiry(t *testing.T) {
	now := time.Unix(0, 0)
	cacheable, expireAt := cacheability(now, "public")
	assert.True(t, cacheable)
	assert.Nil(t, expireAt)
}
