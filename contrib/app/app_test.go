package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omalloc/rangevault/contrib/app"
)

type fakeServer struct {
	startErr error
	stopped  chan struct{}
}

func (s *fakeServer) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	<-ctx.Done()
	return nil
}

func (s *fakeServer) Stop(ctx context.Context) error {
	close(s.stopped)
	return nil
}

func TestAppRunStopsOnRequest(t *testing.T) {
	srv := &fakeServer{stopped: make(chan struct{})}
	a := app.New(app.Server(srv), app.StopTimeout(time.Second))

	done := make(chan error, 1)
	go func() { done <- a.Run() }()

	time.Sleep(10 * time.Millisecond)
	a.Stop()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}

	select {
	case <-srv.stopped:
	default:
		t.Fatal("server was not stopped")
	}
}

func TestAppRunPropagatesStartError(t *testing.T) {
	boom := errors.New("boom")
	srv := &fakeServer{startErr: boom, stopped: make(chan struct{})}
	a := app.New(app.Server(srv), app.StopTimeout(time.Second))

	err := a.Run()
	assert.ErrorIs(t, err, boom)
}
