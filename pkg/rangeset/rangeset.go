// Package rangeset abstracts over contiguous, sliceable spans of data so
// that pkg/sparsemap can back both a sparse byte store and plain interval
// bookkeeping with the same tree-walking logic.
package rangeset

// Collection is a contiguous span of length Len that can be re-sliced by a
// half-open [start, end) range. Span and Bytes are the two instantiations
// the rest of the module needs: Span tracks interval length only, Bytes
// carries the actual cached payload.
type Collection[T any] interface {
	Slice(start, end int) T
	Len() int
}

// Span is a length-only Collection, used to track occupied byte ranges
// without holding the underlying bytes (e.g. union_discontinuous_range-style
// hole queries over an offset/length space).
type Span int

func (s Span) Slice(start, end int) Span {
	return Span(end - start)
}

func (s Span) Len() int {
	return int(s)
}

// Bytes is a Collection backed by an actual byte slice.
type Bytes []byte

func (b Bytes) Slice(start, end int) Bytes {
	return b[start:end]
}

func (b Bytes) Len() int {
	return len(b)
}
