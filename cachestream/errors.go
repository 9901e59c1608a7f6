package cachestream

import "errors"

// The four error kinds from §7, as sentinels callers distinguish with
// errors.Is. Within this package only AdaptiveReader returns any of them:
// ErrUpstreamTransport wrapped around the underlying error, and
// ErrInvalidUpstreamStatus as is.
var (
	// ErrInvalidUpstreamStatus means an upstream fetch issued during a hole
	// fill returned Passthrough — fatal for the current stream; chunks
	// already yielded remain valid.
	ErrInvalidUpstreamStatus = errors.New("cachestream: upstream returned passthrough during hole fill")

	// ErrUpstreamTransport means a network or decoding failure from the
	// upstream body terminated the current stream without poisoning the
	// cache entry.
	ErrUpstreamTransport = errors.New("cachestream: upstream transport failure")

	// ErrRangeUnsatisfiable means the caller-requested range is
	// unrepresentable. Decoded by the outer layer before entering the core;
	// no code in this package returns it.
	ErrRangeUnsatisfiable = errors.New("cachestream: range unsatisfiable")

	// ErrOverCapacityAdmission names the non-fatal case of an admitted entry
	// larger than the cache's capacity. SizedTTLCache admits such an entry
	// without returning this error.
	ErrOverCapacityAdmission = errors.New("cachestream: entry admitted over capacity")
)
