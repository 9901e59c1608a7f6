package cachestream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omalloc/rangevault/cachestream"
)

func TestBlocksGetPutNew(t *testing.T) {
	b := cachestream.NewBlocks()

	_, ok := b.Get(0, 5)
	assert.False(t, ok)

	b.PutNew(0, []byte("hello world"))

	got, ok := b.Get(0, 5)
	assert.True(t, ok)
	assert.Equal(t, []byte("hello"), []byte(got))

	got, ok = b.Get(6, 5)
	assert.True(t, ok)
	assert.Equal(t, []byte("world"), []byte(got))

	// first-writer-wins: an overlapping write does not replace prior bytes.
	b.PutNew(0, []byte("AAAAAAAAAAA"))
	got, ok = b.Get(0, 5)
	assert.True(t, ok)
	assert.Equal(t, []byte("hello"), []byte(got))
}
