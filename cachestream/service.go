package cachestream

import (
	"context"
	"time"
)

// Service is the entry point: it looks a resource up in a shared
// SizedTTLCache, serving a new response built by the cache's
// ResponseBuilder on a hit, or fetching upstream, deciding cache vs.
// passthrough, and constructing a ResponseBuilder on a miss.
type Service[K comparable, R Response] struct {
	backend RequestBackend[K, R]
	factory Factory[R]
	cache   *SizedTTLCache[K, *ResponseBuilder[R]]
}

// NewService wires a RequestBackend and a Factory into a Service with the
// given cache capacity in bytes.
func NewService[K comparable, R Response](backend RequestBackend[K, R], factory Factory[R], capacityBytes int) *Service[K, R] {
	return &Service[K, R]{
		backend: backend,
		factory: factory,
		cache:   NewSizedTTLCache[K, *ResponseBuilder[R]](capacityBytes),
	}
}

// Call is §4.G's dispatcher entry point.
func (s *Service[K, R]) Call(ctx context.Context, now time.Time, key K, rng RequestRange) (ServiceStatus[R], error) {
	if builder, ok := s.cache.Get(now, key); ok {
		return ServiceStatus[R]{Kind: ServiceCache, Response: builder.Stream(rng)}, nil
	}

	requester := s.backend.CreateForKey(key)
	status, err := requester.Fetch(ctx, rng)
	if err != nil {
		var zero ServiceStatus[R]
		return zero, err
	}

	if status.Kind == StatusPassthrough {
		return ServiceStatus[R]{Kind: ServicePassthrough, Response: status.Response}, nil
	}

	first, builder := NewResponseBuilder[R](s.factory, status.Response, status.ResponseRange, status.Meta, requester)

	// get_or_insert settles on at most one surviving builder per key. If a
	// concurrent caller's builder won the race, ours is simply left for the
	// garbage collector — our own first response is still valid to return,
	// it just won't be reused by later callers.
	entry := NewEntry[*ResponseBuilder[R]](status.ResponseRange.BytesLen, status.ExpireAt, builder)
	s.cache.GetOrInsert(now, key, entry)

	return ServiceStatus[R]{Kind: ServiceCache, Response: first}, nil
}
