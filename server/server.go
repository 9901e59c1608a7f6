package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"dario.cat/mergo"
	"github.com/cloudflare/tableflip"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/omalloc/rangevault/cachestream"
	"github.com/omalloc/rangevault/conf"
	"github.com/omalloc/rangevault/contrib/log"
	"github.com/omalloc/rangevault/contrib/transport"
	"github.com/omalloc/rangevault/httpcache"
	"github.com/omalloc/rangevault/internal/constants"
	"github.com/omalloc/rangevault/metrics"
	"github.com/omalloc/rangevault/pkg/httperr"
	xhttp "github.com/omalloc/rangevault/pkg/x/http"
	"github.com/omalloc/rangevault/pkg/x/runtime"
	"github.com/omalloc/rangevault/server/middleware"
	_ "github.com/omalloc/rangevault/server/middleware/recovery"
	"github.com/omalloc/rangevault/server/mod"
)

var localMatcher = map[string]struct{}{
	"localhost": {},
	"127.1":     {},
	"127.0.0.1": {},
}
var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 32*1024)
		return &b
	},
}

var (
	metricRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "requests_total",
		Help: "Total number of requests served, by proto and status code.",
	}, []string{"proto", "status"})
	metricRequestUnexpectedClosed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "request_unexpected_closed_total",
		Help: "Total number of responses whose body copy to the client ended early.",
	}, []string{"proto", "method"})
)

func init() {
	prometheus.MustRegister(metricRequestsTotal, metricRequestUnexpectedClosed)
}

type HTTPServer struct {
	*http.Server

	cache *httpcache.Service

	flip         *tableflip.Upgrader
	config       *conf.Bootstrap
	serverConfig *conf.Server
	listener     net.Listener
	cleanups     []func()
}

// NewServer wires the HTTP listener around a cache-streaming Service: cache
// is the fully assembled httpcache.Service (backed by a proxy.Backend),
// already bound to its RequestBackend at construction time.
func NewServer(flip *tableflip.Upgrader, config *conf.Bootstrap, cache *httpcache.Service) transport.Server {
	servConfig := config.Server

	s := &HTTPServer{
		Server: &http.Server{
			Addr:              servConfig.Addr,
			ReadTimeout:       servConfig.ReadTimeout,
			WriteTimeout:      servConfig.WriteTimeout,
			IdleTimeout:       servConfig.IdleTimeout,
			ReadHeaderTimeout: servConfig.ReadHeaderTimeout,
			MaxHeaderBytes:    servConfig.MaxHeaderBytes,
		},
		cache:        cache,
		flip:         flip,
		config:       config,
		serverConfig: config.Server,
		cleanups:     make([]func(), 0),
	}

	if len(servConfig.LocalApiAllowHosts) > 0 {
		for _, host := range servConfig.LocalApiAllowHosts {
			localMatcher[host] = struct{}{}
		}
	}

	// internal routes: probes, metrics, pprof
	mux := s.newServeMux()

	// business routes: the cache-streaming service
	next, err := s.buildEndpoint()
	if err != nil {
		panic(err)
	}

	fmtAddr := func(addr string) string {
		if i := strings.IndexByte(addr, ':'); i >= 0 {
			return addr[:i]
		}
		return addr
	}

	s.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := fmtAddr(r.Host)
		if _, ok := localMatcher[host]; ok {
			mux.ServeHTTP(w, r)
			return
		}
		next(w, r)
	})

	return s
}

func (s *HTTPServer) Start(ctx context.Context) error {
	s.BaseContext = func(ln net.Listener) context.Context {
		return ctx
	}

	if err := s.listen(); err != nil {
		return err
	}

	log.Infof("HTTP Cache server listening on %s", s.config.Server.Addr)

	if err := s.Serve(s.listener); err != nil &&
		!errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// listen asks the tableflip Upgrader for a listener (inherited from the
// parent process across a graceful restart, or freshly bound if there is
// none), then signals readiness so the parent can exit.
func (s *HTTPServer) listen() error {
	network := "tcp"
	addr := s.config.Server.Addr
	if strings.HasSuffix(addr, ".sock") || strings.HasPrefix(addr, "unix://") {
		network = "unix"
		addr = strings.TrimPrefix(addr, "unix://")
	}

	ln, err := s.flip.Listen(network, addr)
	if err != nil {
		return fmt.Errorf("listen %s %s: %w", network, addr, err)
	}
	s.listener = ln

	return s.flip.Ready()
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	var errs []error

	if err := s.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	for _, cleanup := range s.cleanups {
		cleanup()
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *HTTPServer) newServeMux() *http.ServeMux {
	mux := http.NewServeMux()

	mod.HandlePProf(s.serverConfig.PProf, mux)
	mux.Handle("/favicon.ico", http.NotFoundHandler())
	mux.Handle("/version", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, _ := json.Marshal(runtime.BuildInfo)
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
	}))
	mux.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.Handle("/healthz/startup-probe", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := []byte("ok")
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(payload)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
	}))
	mux.Handle("/healthz/liveness-probe", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	mux.Handle("/healthz/readiness-probe", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	xhttp.PrintRoutes(mux,
		"/favicon.ico", "/version", "/metrics",
		"/healthz/startup-probe", "/healthz/liveness-probe", "/healthz/readiness-probe",
		"/debug/pprof/",
	)

	return mux
}

// buildHandler is the cache 主流程入口: it calls the cache-streaming
// service for every request and streams whatever it returns to the client.
func (s *HTTPServer) buildHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var clog = log.Context(req.Context())

		key := req.URL.Scheme + "://" + req.Host + req.URL.Path
		metrics.FromContext(req.Context()).StoreUrl = key

		resp, err := s.cache.Call(req.Context(), req.Method, key, req.Header)
		if err != nil {
			status := httperr.StatusFromError(err)

			clog.Errorf("request %s %s failed: %s", req.Method, req.URL.Path, err)

			body := []byte(err.Error())
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("Content-Length", strconv.Itoa(len(body)))
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.WriteHeader(status)
			_, _ = w.Write(body)

			metricRequestsTotal.WithLabelValues(req.Proto, strconv.Itoa(status)).Inc()
			return
		}

		body := resp.IntoBody()
		defer func() {
			if body != nil {
				_ = body.Close()
			}
		}()

		cacheStatus := "MISS"
		if resp.Cached {
			cacheStatus = "HIT"
		}
		metrics.FromContext(req.Context()).CacheStatus = cacheStatus

		headers := w.Header()
		xhttp.CopyHeader(headers, resp.Headers)
		headers.Set(constants.ProtocolCacheStatusKey, cacheStatus)

		w.WriteHeader(resp.Status)

		if body == nil || req.Method == http.MethodHead {
			metricRequestsTotal.WithLabelValues(req.Proto, strconv.Itoa(resp.Status)).Inc()
			return
		}

		buf := bufPool.Get().(*[]byte)
		defer func() {
			bufPool.Put(buf)
			metricRequestsTotal.WithLabelValues(req.Proto, strconv.Itoa(resp.Status)).Inc()
		}()

		want := resp.Headers.Get("Content-Length")

		sent, err := io.CopyBuffer(w, &bodyStreamReader{ctx: req.Context(), body: body}, *buf)
		if err != nil && !errors.Is(err, io.EOF) {
			clog.Errorf("failed to copy response body to client: [%s] %s %s sent=%d want=%s err=%s", req.Proto, req.Method, req.URL.Path, sent, want, err)
			metricRequestUnexpectedClosed.WithLabelValues(req.Proto, req.Method).Inc()
			return
		}

		if want == "" {
			clog.Debugf("copied %d response body bytes chunked body from upstream to client", sent)
			return
		}

		want1, _ := strconv.ParseInt(want, 10, 64)
		if sent != want1 {
			clog.Warnf("copied %d response body bytes to client, conflict Content-Length %s bytes", sent, want)
			return
		}

		clog.Debugf("copied %d response body bytes to client, Content-Length %s bytes", sent, want)
	}
}

func (s *HTTPServer) buildEndpoint() (http.HandlerFunc, error) {
	chain, err := s.buildMiddlewareChain()
	if err != nil {
		return nil, err
	}

	next := chain(s.buildHandler()).ServeHTTP

	return mod.HandleAccessLog(s.serverConfig.AccessLog, next), nil
}

// buildMiddlewareChain builds the chain of configured middleware (e.g.
// recovery) wrapping the handler that calls into the cache-streaming
// service. Middleware order in config.yaml is outermost-first.
func (s *HTTPServer) buildMiddlewareChain() (middleware.Middleware, error) {
	middlewares := s.config.Server.Middleware

	global := s.globalOptions(make(map[string]any))

	built := make([]middleware.Middleware, 0, len(middlewares))
	for i := 0; i < len(middlewares); i++ {
		if middlewares[i].Name == "" {
			panic("middlewares name is empty, config file array index " + strconv.Itoa(i))
		}

		conf := middlewares[i]
		if conf != nil && len(conf.Options) > 0 {
			if err := mergo.Map(&conf.Options, global, mergo.WithOverride); err != nil {
				log.Warnf("failed to merge global options to middleware %s: %v", conf.Name, err)
			}
		}
		mw, cleanup, err := middleware.Create(conf)
		if err != nil {
			log.Warnf("failed to create middleware %s: %v", conf.Name, err)
			continue
		}

		s.cleanups = append(s.cleanups, cleanup)
		built = append(built, mw)
	}
	return middleware.Chain(built...), nil
}

func (s *HTTPServer) globalOptions(src map[string]any) map[string]any {
	if s.config.Hostname != "" {
		src["hostname"] = s.config.Hostname
	}
	return src
}

// bodyStreamReader adapts a cachestream.BodyStream into an io.Reader so it
// can be handed to io.CopyBuffer.
type bodyStreamReader struct {
	ctx     context.Context
	body    cachestream.BodyStream
	pending []byte
}

func (r *bodyStreamReader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		chunk, err := r.body.Next(r.ctx)
		if err != nil {
			return 0, err
		}
		r.pending = chunk
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	metrics.RecordBytesSent(n)
	return n, nil
}
