package cachestream

// ResponseBuilder is a per-resource object created on a cache miss from the
// first upstream response. Its Blocks and upstream handles are shared
// (reference-counted) by every stream it later produces; size is immutable
// once constructed.
type ResponseBuilder[R Response] struct {
	upstream Requester[R]
	size     int
	meta     Meta
	blocks   *Blocks
	factory  Factory[R]
}

// NewResponseBuilder stores the first response's size, meta, and upstream
// handle, tees the first response's body into a fresh Blocks (the first
// response is authoritative, so its AdaptiveReader starts in the Tee
// state), and streams responseRange.BytesRange through it to produce the
// first output response. The returned builder is otherwise ready to serve
// further ranges via Stream.
func NewResponseBuilder[R Response](
	factory Factory[R],
	firstResponse R,
	responseRange ResponseRange,
	meta Meta,
	upstream Requester[R],
) (first R, builder *ResponseBuilder[R]) {
	blocks := NewBlocks()
	builder = &ResponseBuilder[R]{
		upstream: upstream,
		size:     responseRange.BytesLen,
		meta:     meta,
		blocks:   blocks,
		factory:  factory,
	}

	reader := NewAdaptiveReaderFromBodyStream[R](blocks, firstResponse.IntoBody())
	start, end := responseRange.BytesRange.Clip(responseRange.BytesLen)

	first = factory(meta, responseRange, reader.IntoStream(start, end))
	return first, builder
}

// Stream produces a new logical response for requestRange, reusing
// whatever bytes are already cached and fetching only the holes, via a
// fresh AdaptiveReader starting in the Block state.
func (b *ResponseBuilder[R]) Stream(requestRange RequestRange) R {
	reader := NewAdaptiveReader[R](b.upstream, b.blocks)
	start, end := requestRange.Clip(b.size)

	rr := ResponseRange{BytesLen: b.size, BytesRange: FromTo(start, end)}
	return b.factory(b.meta, rr, reader.IntoStream(start, end))
}
