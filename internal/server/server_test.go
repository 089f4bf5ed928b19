package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServer_ServeAndShutdown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	srv := New(handler, Options{ShutdownTimeout: time.Second}, discardLogger())

	var mu sync.Mutex
	var order []string
	record := func(name string) ShutdownFunc {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}
	srv.OnShutdown("first", record("first"))
	srv.OnShutdown("second", record("second"))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("status = %d, want 418", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("shutdown order = %v, want [second first]", order)
	}
}

func TestServer_ShutdownErrorsJoined(t *testing.T) {
	srv := New(http.NotFoundHandler(), Options{ShutdownTimeout: time.Second}, discardLogger())
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	srv.OnShutdown("a", func(context.Context) error { return errA })
	srv.OnShutdown("b", func(context.Context) error { return errB })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = srv.Serve(ctx, ln)
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("expected both shutdown errors, got %v", err)
	}
}

func TestServer_Addr(t *testing.T) {
	srv := New(http.NotFoundHandler(), Options{Port: 9090}, discardLogger())
	if srv.Addr() != ":9090" {
		t.Errorf("Addr() = %q, want :9090", srv.Addr())
	}
}
