package recovery

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"

	configv1 "github.com/omalloc/rangevault/api/defined/v1/middleware"
	"github.com/omalloc/rangevault/contrib/log"
	"github.com/omalloc/rangevault/pkg/x/runtime"
	"github.com/omalloc/rangevault/server/middleware"
)

func init() {
	middleware.Register("recovery", Middleware)
}

type middlewareOption struct {
	ReportToSentry bool `json:"report_to_sentry" yaml:"report_to_sentry"`
}

func Middleware(c *configv1.Middleware) (middleware.Middleware, func(), error) {
	var opts middlewareOption
	if err := c.Unmarshal(&opts); err != nil {
		return nil, nil, err
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				if r := recover(); r != nil {
					log.Context(req.Context()).Errorf("middleware recovery: %s \n%s", r, runtime.PrintStackTrace(4))
					if opts.ReportToSentry {
						sentry.CaptureException(fmt.Errorf("panic: %v", r))
					}
					w.WriteHeader(http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, req)
		})
	}, middleware.EmptyCleanup, nil
}
