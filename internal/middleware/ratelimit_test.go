package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/empproxy/empproxy/internal/cache"
)

type fakeLimiter struct {
	mu     sync.Mutex
	result *cache.RateLimitResult
	err    error
	ips    []string
}

func (f *fakeLimiter) CheckIPRateLimit(_ context.Context, ip string, _, _ int) (*cache.RateLimitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ips = append(f.ips, ip)
	return f.result, f.err
}

func rateLimited(limiter IPRateLimiter, enabled bool) http.Handler {
	cfg := RateLimitConfig{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Limiter: limiter,
		Enabled: enabled,
		RPS:     5,
		Burst:   10,
	}
	return RateLimitIP(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRateLimitIP(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		result     *cache.RateLimitResult
		err        error
		wantStatus int
		wantRetry  string
	}{
		{"disabled", false, &cache.RateLimitResult{Allowed: false}, nil, http.StatusOK, ""},
		{"allowed", true, &cache.RateLimitResult{Allowed: true, Remaining: 9}, nil, http.StatusOK, ""},
		{"denied", true, &cache.RateLimitResult{Allowed: false, RetryAfter: 2 * time.Second}, nil, http.StatusTooManyRequests, "2"},
		{"denied sub-second", true, &cache.RateLimitResult{Allowed: false}, nil, http.StatusTooManyRequests, "1"},
		{"limiter error fails open", true, nil, errors.New("redis down"), http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := &fakeLimiter{result: tt.result, err: tt.err}
			handler := rateLimited(limiter, tt.enabled)

			req := httptest.NewRequest(http.MethodGet, "/employees", nil)
			req.RemoteAddr = "203.0.113.7:52100"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Retry-After"); got != tt.wantRetry {
				t.Errorf("Retry-After = %q, want %q", got, tt.wantRetry)
			}
			if tt.enabled && (len(limiter.ips) != 1 || limiter.ips[0] != "203.0.113.7") {
				t.Errorf("limiter saw ips %v", limiter.ips)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remoteAddr string
		want       string
	}{
		{"192.0.2.1:1234", "192.0.2.1"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"192.0.2.9", "192.0.2.9"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remoteAddr
		if got := clientIP(req); got != tt.want {
			t.Errorf("clientIP(%q) = %q, want %q", tt.remoteAddr, got, tt.want)
		}
	}
}
