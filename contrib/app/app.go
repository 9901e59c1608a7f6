// Package app is a trimmed, renamed stand-in for the house mini-framework
// referenced elsewhere as contrib/kratos: a named, versioned process that
// starts a set of transport.Server implementations together and stops
// them together on SIGINT/SIGTERM, within a bounded shutdown window.
package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/omalloc/rangevault/contrib/log"
	"github.com/omalloc/rangevault/contrib/transport"
)

// App runs a fixed set of transport servers for the lifetime of the
// process.
type App struct {
	id          string
	name        string
	version     string
	stopTimeout time.Duration
	logger      log.Logger
	servers     []transport.Server

	mu   sync.Mutex
	done chan struct{}
}

// Option configures an App.
type Option func(*App)

// ID sets the process instance id (typically the hostname).
func ID(id string) Option { return func(a *App) { a.id = id } }

// Name sets the process name, used only for logging.
func Name(name string) Option { return func(a *App) { a.name = name } }

// Version sets the build version, used only for logging.
func Version(version string) Option { return func(a *App) { a.version = version } }

// StopTimeout bounds how long Stop waits for every server to finish its
// own Stop before returning anyway.
func StopTimeout(d time.Duration) Option { return func(a *App) { a.stopTimeout = d } }

// Logger sets the logger App itself logs lifecycle events through.
func Logger(l log.Logger) Option { return func(a *App) { a.logger = l } }

// Server appends transport servers to start/stop together.
func Server(servers ...transport.Server) Option {
	return func(a *App) { a.servers = append(a.servers, servers...) }
}

// New builds an App from options.
func New(opts ...Option) *App {
	a := &App{
		stopTimeout: 30 * time.Second,
		logger:      log.GetLogger(),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts every server concurrently, blocks until a SIGINT/SIGTERM or a
// server's Start returns an error, then stops every server and returns the
// first error encountered (if any).
func (a *App) Run() error {
	helper := log.NewHelper(a.logger)
	helper.Infof("app %s (%s) starting, instance %s", a.name, a.version, a.id)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errs := make(chan error, len(a.servers))
	var wg sync.WaitGroup
	for _, srv := range a.servers {
		wg.Add(1)
		go func(srv transport.Server) {
			defer wg.Done()
			if err := srv.Start(ctx); err != nil {
				errs <- err
			}
		}(srv)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case runErr = <-errs:
		helper.Errorf("server start failed: %v", runErr)
	case sig := <-sigs:
		helper.Infof("received signal %s, shutting down", sig)
	case <-a.done:
		helper.Info("stop requested, shutting down")
	}

	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), a.stopTimeout)
	defer stopCancel()

	for _, srv := range a.servers {
		if err := srv.Stop(stopCtx); err != nil {
			helper.Errorf("server stop failed: %v", err)
			if runErr == nil {
				runErr = err
			}
		}
	}

	wg.Wait()
	return runErr
}

// Stop requests Run to begin shutdown, for use from outside the signal
// path (e.g. a test or an admin endpoint).
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	select {
	case <-a.done:
	default:
		close(a.done)
	}
}
