// Package httperr is the HTTP-facing error type the server uses to report
// failures from the cache-streaming service without that service itself
// importing net/http.
package httperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/omalloc/rangevault/cachestream"
	"github.com/omalloc/rangevault/httpcache"
)

type Error struct {
	Code    int
	Headers http.Header
	cause   error
}

func New(code int, headers http.Header) *Error {
	return &Error{
		Code:    code,
		Headers: headers,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("error: code = %d headers = %v cause = %v", e.Code, e.Headers, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

// StatusFromError classifies an error returned by httpcache.Service.Call
// (or anything it wraps) into the HTTP status code the server should
// respond with.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, httpcache.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, httpcache.ErrRangeInvalid), errors.Is(err, cachestream.ErrRangeUnsatisfiable):
		return http.StatusRequestedRangeNotSatisfiable
	case errors.Is(err, cachestream.ErrInvalidUpstreamStatus), errors.Is(err, cachestream.ErrUpstreamTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
