package middleware

import (
	"net/http"

	configv1 "github.com/omalloc/rangevault/api/defined/v1/middleware"
)

// Factory is a middleware factory.
type Factory func(*configv1.Middleware) (middleware Middleware, cleanup func(), err error)

// Middleware wraps the server's handler. Unlike the teacher's
// http.RoundTripper chain (which wrapped an upstream round trip),
// middleware here wraps the handler that calls into the cache-streaming
// service directly, since there is no separate upstream RoundTrip step
// left in this request path.
type Middleware func(http.Handler) http.Handler

// Chain returns a Middleware that runs m in order around next: m[0] sees
// the request first.
func Chain(m ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(m) - 1; i >= 0; i-- {
			next = m[i](next)
		}
		return next
	}
}

var EmptyMiddleware = func(next http.Handler) http.Handler { return next }
var EmptyCleanup = func() {}
