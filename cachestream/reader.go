package cachestream

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// BlockBodyReader pulls already-cached bytes from a Blocks handle.
type BlockBodyReader struct {
	blocks *Blocks
}

// NewBlockBodyReader wraps blocks for block-only reading.
func NewBlockBodyReader(blocks *Blocks) *BlockBodyReader {
	return &BlockBodyReader{blocks: blocks}
}

// Next returns the next cached slice at *offset (up to end-*offset bytes),
// advancing *offset by the slice length; ok is false if nothing is mapped
// at *offset. Precondition: *offset < end.
func (r *BlockBodyReader) Next(offset *int, end int) (chunk Chunk, ok bool) {
	slice, ok := r.blocks.Get(*offset, end-*offset)
	if !ok {
		return nil, false
	}
	*offset += len(slice)
	return Chunk(slice), true
}

// StreamBodyReader consumes an upstream BodyStream chunk by chunk.
type StreamBodyReader struct {
	body BodyStream
}

// NewStreamBodyReader wraps an upstream body stream.
func NewStreamBodyReader(body BodyStream) *StreamBodyReader {
	return &StreamBodyReader{body: body}
}

// Next awaits the next upstream chunk, advancing *offset by its length
// (which must not exceed end). ok is false on clean exhaustion; err is set
// only on a genuine transport failure.
func (r *StreamBodyReader) Next(ctx context.Context, offset *int, end int) (chunk Chunk, ok bool, err error) {
	chunk, err = r.body.Next(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, false, nil
		}
		return nil, false, err
	}
	*offset += len(chunk)
	return chunk, true, nil
}

// TeeBodyReader tees every chunk it reads from an upstream StreamBodyReader
// into a Blocks handle before yielding it. Because Blocks.PutNew skips
// already-covered regions, tees of overlapping ranges are idempotent.
type TeeBodyReader struct {
	blocks *Blocks
	stream *StreamBodyReader
}

// NewTeeBodyReader wraps a stream reader, teeing its chunks into blocks.
func NewTeeBodyReader(blocks *Blocks, stream *StreamBodyReader) *TeeBodyReader {
	return &TeeBodyReader{blocks: blocks, stream: stream}
}

// Next reads the next chunk from the underlying stream, writes it into
// Blocks at its pre-advance offset, and returns it.
func (r *TeeBodyReader) Next(ctx context.Context, offset *int, end int) (Chunk, bool, error) {
	start := *offset
	chunk, ok, err := r.stream.Next(ctx, offset, end)
	if err != nil || !ok {
		return nil, ok, err
	}
	r.blocks.PutNew(start, chunk)
	return chunk, true, nil
}

type readerState int

const (
	stateBlock readerState = iota
	stateTee
	stateError
)

// AdaptiveReader is the state machine described in §4.E/§9: it drains
// cached bytes from Blocks, and on a hole issues exactly one bounded
// upstream fetch, tee-ing the result so later readers benefit from the
// bytes just fetched. Error is a transient state: once entered, Next always
// reports io.EOF rather than attempting further work.
type AdaptiveReader[R Response] struct {
	state     readerState
	blocks    *Blocks
	requester Requester[R]
	tee       *TeeBodyReader
}

// NewAdaptiveReader starts in the Block state — the usual case for a
// request against an already-populated (or partially populated) resource.
func NewAdaptiveReader[R Response](requester Requester[R], blocks *Blocks) *AdaptiveReader[R] {
	return &AdaptiveReader[R]{state: stateBlock, blocks: blocks, requester: requester}
}

// NewAdaptiveReaderFromBodyStream starts in the Tee state: the given body
// is the first, authoritative response for a brand new resource, so it is
// tee'd into blocks from the first byte rather than being looked up.
func NewAdaptiveReaderFromBodyStream[R Response](blocks *Blocks, body BodyStream) *AdaptiveReader[R] {
	return &AdaptiveReader[R]{
		state:  stateTee,
		blocks: blocks,
		tee:    NewTeeBodyReader(blocks, NewStreamBodyReader(body)),
	}
}

// Next returns the next chunk in [*offset, end), advancing *offset.
// Precondition: *offset < end.
func (a *AdaptiveReader[R]) Next(ctx context.Context, offset *int, end int) (Chunk, error) {
	for {
		switch a.state {
		case stateBlock:
			if slice, ok := a.blocks.Get(*offset, end-*offset); ok {
				*offset += len(slice)
				return Chunk(slice), nil
			}

			status, err := a.requester.Fetch(ctx, FromTo(*offset, end))
			if err != nil {
				a.state = stateError
				return nil, fmt.Errorf("%w: %w", ErrUpstreamTransport, err)
			}
			if status.Kind == StatusPassthrough {
				a.state = stateError
				return nil, ErrInvalidUpstreamStatus
			}

			a.tee = NewTeeBodyReader(a.blocks, NewStreamBodyReader(status.Response.IntoBody()))
			a.state = stateTee

		case stateTee:
			chunk, ok, err := a.tee.Next(ctx, offset, end)
			if err != nil {
				a.state = stateError
				return nil, fmt.Errorf("%w: %w", ErrUpstreamTransport, err)
			}
			if !ok {
				return nil, io.EOF
			}
			return chunk, nil

		default: // stateError
			return nil, io.EOF
		}
	}
}

// IntoStream folds Next into a lazy finite BodyStream over [start, end).
func (a *AdaptiveReader[R]) IntoStream(start, end int) BodyStream {
	return &adaptiveStream[R]{reader: a, offset: start, end: end}
}

type adaptiveStream[R Response] struct {
	reader *AdaptiveReader[R]
	offset int
	end    int
}

func (s *adaptiveStream[R]) Next(ctx context.Context) (Chunk, error) {
	if s.offset >= s.end {
		return nil, io.EOF
	}
	return s.reader.Next(ctx, &s.offset, s.end)
}

func (s *adaptiveStream[R]) Close() error { return nil }
