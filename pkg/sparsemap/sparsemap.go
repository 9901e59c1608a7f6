// Package sparsemap implements a sparse mapping of non-negative integer
// intervals to rangeset.Collection values, keyed and ordered by each
// block's start offset.
//
// When T is rangeset.Bytes, SparseMap behaves like a sparse file: it holds
// disjoint mapped byte ranges with holes in between; cachestream.Blocks is
// built on this instantiation. When T is rangeset.Span, it behaves as a
// plain interval set. No code outside this package's tests instantiates
// it over rangeset.Span.
//
// No merging of adjacent blocks is performed; a write never overwrites
// bytes an earlier write already mapped (first-writer-wins).
package sparsemap

import (
	"github.com/google/btree"

	"github.com/omalloc/rangevault/pkg/rangeset"
)

type entry[T rangeset.Collection[T]] struct {
	start int
	block T
}

func (e entry[T]) end() int {
	return e.start + e.block.Len()
}

// SparseMap is not safe for concurrent use; callers needing that (see
// cachestream.Blocks) hold their own mutex around it.
type SparseMap[T rangeset.Collection[T]] struct {
	tree *btree.BTreeG[entry[T]]
}

// New returns an empty SparseMap.
func New[T rangeset.Collection[T]]() *SparseMap[T] {
	less := func(a, b entry[T]) bool { return a.start < b.start }
	return &SparseMap[T]{tree: btree.NewG[entry[T]](32, less)}
}

// Get returns the largest slice (no longer than maxSize) mapped at offset,
// or ok=false if nothing is mapped there.
//
// If a block is mapped below offset but extends past it, a slice of that
// block starting at offset is returned. A block is only ever considered if
// its start is exactly offset or strictly before it.
func (m *SparseMap[T]) Get(offset, maxSize int) (slice T, ok bool) {
	requestedEnd := offset + maxSize

	found, hit := m.lastAtOrBefore(offset)
	if !hit || !gteIntersecting(offset, requestedEnd, found.start, found.end()) {
		var zero T
		return zero, false
	}

	sliceEnd := found.block.Len()
	if limit := offset - found.start + maxSize; limit < sliceEnd {
		sliceEnd = limit
	}
	return found.block.Slice(offset-found.start, sliceEnd), true
}

// PutNew maps data at offset, progressively slicing it to fit into
// discontinuous regions and discarding the portions that overlap bytes
// already mapped by an earlier write.
func (m *SparseMap[T]) PutNew(offset int, data T) {
	for data.Len() > 0 {
		// A block starting at or before offset may already extend past it;
		// firstAtOrAfter alone would miss that overlap entirely, since it
		// only ever looks at blocks starting at offset or later.
		if prev, hasPrev := m.lastAtOrBefore(offset); hasPrev && offset < prev.end() {
			advance := data.Len()
			if remaining := prev.end() - offset; remaining < advance {
				advance = remaining
			}
			data = data.Slice(advance, data.Len())
			offset += advance
			continue
		}

		requestedEnd := offset + data.Len()
		next, hasNext := m.firstAtOrAfter(offset)

		switch {
		case hasNext && gteIntersecting(offset, requestedEnd, next.start, next.end()):
			advance := data.Len()
			if remaining := next.block.Len() - (offset - next.start); remaining < advance {
				advance = remaining
			}
			data = data.Slice(advance, data.Len())
			offset += advance

		case hasNext && ltIntersecting(offset, requestedEnd, next.start, next.end()):
			advance := next.start - offset
			if data.Len() < advance {
				advance = data.Len()
			}
			m.tree.ReplaceOrInsert(entry[T]{start: offset, block: data.Slice(0, advance)})
			data = data.Slice(advance, data.Len())
			offset += advance

		default:
			m.tree.ReplaceOrInsert(entry[T]{start: offset, block: data})
			return
		}
	}
}

// UnionDiscontinuousRange finds the largest discontinuous range which
// intersects [start, end). If the range contains any unmapped bytes, it
// returns the span from the first unmapped offset to the last, collapsing
// any mapped bytes in between; otherwise ok is false.
func (m *SparseMap[T]) UnionDiscontinuousRange(start, end int) (holeStart, holeEnd int, ok bool) {
	var tracker holeTracker

	offset := start
	remaining := end - start

	for remaining > 0 {
		if prev, hasPrev := m.lastAtOrBefore(offset); hasPrev && offset < prev.end() {
			advance := remaining
			if rem := prev.end() - offset; rem < advance {
				advance = rem
			}
			remaining -= advance
			offset += advance
			continue
		}

		requestedEnd := offset + remaining
		next, hasNext := m.firstAtOrAfter(offset)

		switch {
		case hasNext && gteIntersecting(offset, requestedEnd, next.start, next.end()):
			advance := remaining
			if rem := next.block.Len() - (offset - next.start); rem < advance {
				advance = rem
			}
			remaining -= advance
			offset += advance

		case hasNext && ltIntersecting(offset, requestedEnd, next.start, next.end()):
			advance := next.start - offset
			if remaining < advance {
				advance = remaining
			}
			tracker.update(offset, offset+advance)
			remaining -= advance
			offset += advance

		default:
			tracker.update(offset, offset+remaining)
			remaining = 0
		}
	}

	return tracker.Range()
}

// MappedLen returns the number of indices covered by any mapped block.
func (m *SparseMap[T]) MappedLen() int {
	total := 0
	m.tree.Ascend(func(e entry[T]) bool {
		total += e.block.Len()
		return true
	})
	return total
}

// Len returns the range of indices spanned by the sparse map, from the
// first block's start to the last block's end — including any holes
// between them.
func (m *SparseMap[T]) Len() int {
	var first, last entry[T]
	hasFirst, hasLast := false, false

	m.tree.Ascend(func(e entry[T]) bool {
		first = e
		hasFirst = true
		return false
	})
	m.tree.Descend(func(e entry[T]) bool {
		last = e
		hasLast = true
		return false
	})

	if !hasFirst || !hasLast {
		return 0
	}
	return last.end() - first.start
}

func (m *SparseMap[T]) firstAtOrAfter(offset int) (entry[T], bool) {
	var found entry[T]
	hit := false
	m.tree.AscendGreaterOrEqual(entry[T]{start: offset}, func(e entry[T]) bool {
		found = e
		hit = true
		return false
	})
	return found, hit
}

func (m *SparseMap[T]) lastAtOrBefore(offset int) (entry[T], bool) {
	var found entry[T]
	hit := false
	m.tree.DescendLessOrEqual(entry[T]{start: offset}, func(e entry[T]) bool {
		found = e
		hit = true
		return false
	})
	return found, hit
}
