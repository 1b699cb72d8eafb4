package httpserver_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dataguard/pkg/httpserver"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
}

// start runs srv in the background and waits until it listens.
func start(t *testing.T, ctx context.Context, srv *httpserver.Server, h http.Handler) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, h) }()
	select {
	case <-srv.Ready():
	case err := <-done:
		require.FailNow(t, "server exited before listening", "%v", err)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "server did not start")
	}
	return done
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		require.FailNow(t, "run did not finish")
		return nil
	}
}

func TestServer_ServesUntilContextDone(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"), httpserver.WithShutdownTimeout(100*time.Millisecond))
	assert.Nil(t, srv.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := start(t, ctx, srv, okHandler())

	require.NotNil(t, srv.Addr())
	resp, err := http.Get("http://" + srv.Addr().String())
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "ok", string(body))

	cancel()
	require.NoError(t, wait(t, done))
	require.NoError(t, srv.Shutdown(context.Background()), "shutdown after stop is a no-op")
}

func TestServer_ManualShutdown(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"))
	done := start(t, context.Background(), srv, okHandler())

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, wait(t, done))
}

func TestServer_ShutdownBeforeRun(t *testing.T) {
	t.Parallel()

	srv := httpserver.New()
	assert.NoError(t, srv.Shutdown(context.Background()))
}

func TestServer_BindError(t *testing.T) {
	t.Parallel()

	err := httpserver.New(httpserver.WithAddr(":invalid")).Run(context.Background(), okHandler())
	require.Error(t, err)
	assert.ErrorIs(t, err, httpserver.ErrStart)
}

func TestServer_AlreadyRunning(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := start(t, ctx, srv, okHandler())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	err = srv.Serve(ctx, ln, okHandler())
	assert.ErrorIs(t, err, httpserver.ErrStart)
	assert.ErrorIs(t, err, httpserver.ErrAlreadyRunning)

	cancel()
	require.NoError(t, wait(t, done))
}

func TestServer_NilHandlerAnswersNotFound(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := httpserver.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln, nil) }()
	<-srv.Ready()

	resp, err := http.Get("http://" + ln.Addr().String() + "/v1/rules")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cancel()
	require.NoError(t, wait(t, done))
}

func TestServer_DrainsInFlightRequest(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	slow := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(entered)
		<-release
		_, _ = io.WriteString(w, "report")
	})

	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"), httpserver.WithShutdownTimeout(time.Second))
	ctx, cancel := context.WithCancel(context.Background())
	done := start(t, ctx, srv, slow)

	type result struct {
		body string
		err  error
	}
	got := make(chan result, 1)
	go func() {
		resp, err := http.Get("http://" + srv.Addr().String())
		if err != nil {
			got <- result{err: err}
			return
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		got <- result{body: string(b), err: err}
	}()

	<-entered
	cancel()
	close(release)

	r := <-got
	require.NoError(t, r.err)
	assert.Equal(t, "report", r.body)
	require.NoError(t, wait(t, done))
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func()
	}{
		{"empty addr", func() { httpserver.WithAddr("") }},
		{"read timeout", func() { httpserver.WithReadTimeout(0) }},
		{"header timeout", func() { httpserver.WithReadHeaderTimeout(-1) }},
		{"write timeout", func() { httpserver.WithWriteTimeout(0) }},
		{"idle timeout", func() { httpserver.WithIdleTimeout(0) }},
		{"shutdown timeout", func() { httpserver.WithShutdownTimeout(0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Panics(t, tt.fn)
		})
	}

	assert.NotPanics(t, func() { httpserver.New(httpserver.WithLogger(nil)) })
}

func TestConfig_Options(t *testing.T) {
	t.Parallel()

	assert.Empty(t, httpserver.Config{}.Options())

	cfg := httpserver.Config{
		Addr:            "127.0.0.1:0",
		ReadTimeout:     time.Second,
		HeaderTimeout:   time.Second,
		WriteTimeout:    time.Minute,
		IdleTimeout:     time.Minute,
		ShutdownTimeout: time.Second,
	}
	assert.Len(t, cfg.Options(), 6)

	partial := httpserver.Config{Addr: ":9090", WriteTimeout: time.Minute}
	assert.Len(t, partial.Options(), 2)
}

func TestNewFromConfig_OptionsOverride(t *testing.T) {
	t.Parallel()

	srv := httpserver.NewFromConfig(
		httpserver.Config{Addr: ":invalid", ShutdownTimeout: time.Second},
		httpserver.WithAddr("127.0.0.1:0"),
	)
	ctx, cancel := context.WithCancel(context.Background())
	done := start(t, ctx, srv, okHandler())
	host, _, err := net.SplitHostPort(srv.Addr().String())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", host)
	cancel()
	require.NoError(t, wait(t, done))
}
