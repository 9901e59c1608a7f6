package cachestream

import (
	"sync"

	"github.com/omalloc/rangevault/pkg/rangeset"
	"github.com/omalloc/rangevault/pkg/sparsemap"
)

// Blocks is a thread-safe wrapper over a sparsemap.SparseMap specialized to
// byte buffers. A Blocks handle is shared by the ResponseBuilder (writer,
// via TeeBodyReader, on the first fetch) and the block reader of every
// subsequent per-range stream; sharing the pointer shares the underlying
// map, so tees from one reader are immediately visible to all others.
type Blocks struct {
	mu   sync.Mutex
	data *sparsemap.SparseMap[rangeset.Bytes]
}

// NewBlocks returns an empty Blocks.
func NewBlocks() *Blocks {
	return &Blocks{data: sparsemap.New[rangeset.Bytes]()}
}

// Get returns the largest slice (no longer than maxSize) mapped at offset.
func (b *Blocks) Get(offset, maxSize int) (rangeset.Bytes, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data.Get(offset, maxSize)
}

// PutNew maps data at offset, skipping any sub-interval already covered by
// an earlier write.
func (b *Blocks) PutNew(offset int, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data.PutNew(offset, rangeset.Bytes(data))
}
