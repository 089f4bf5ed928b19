package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.AppEnv != "development" {
		t.Errorf("expected default AppEnv 'development', got %s", cfg.AppEnv)
	}
	if cfg.AppPort != 8080 {
		t.Errorf("expected default AppPort 8080, got %d", cfg.AppPort)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("expected default LogFormat 'json', got %s", cfg.LogFormat)
	}
	if cfg.UpstreamBaseURL != "http://localhost:8112/api/v1/employee" {
		t.Errorf("unexpected default upstream URL %s", cfg.UpstreamBaseURL)
	}
	if cfg.UpstreamConnectTimeout != 5*time.Second || cfg.UpstreamReadTimeout != 10*time.Second {
		t.Errorf("unexpected upstream timeouts %s/%s", cfg.UpstreamConnectTimeout, cfg.UpstreamReadTimeout)
	}
	if cfg.RetryMaxAttempts != 3 || cfg.RetryInitialDelay != time.Second ||
		cfg.RetryMaxDelay != 5*time.Second || cfg.RetryMultiplier != 2 {
		t.Errorf("unexpected retry defaults: %+v", cfg)
	}
	if cfg.RedisURL != "" || cfg.RateLimitEnabled {
		t.Errorf("expected redis and rate limiting off by default")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("UPSTREAM_BASE_URL", "http://directory:9000/api/v1/employee")
	t.Setenv("UPSTREAM_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("UPSTREAM_RETRY_INITIAL_DELAY", "250ms")
	t.Setenv("UPSTREAM_RETRY_MULTIPLIER", "1.5")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("RATE_LIMIT_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	up := cfg.UpstreamConfig()
	if up.BaseURL != "http://directory:9000/api/v1/employee" {
		t.Errorf("unexpected base URL %s", up.BaseURL)
	}
	if up.Retry.MaxAttempts != 5 || up.Retry.InitialDelay != 250*time.Millisecond || up.Retry.Multiplier != 1.5 {
		t.Errorf("unexpected retry policy %+v", up.Retry)
	}
	if up.ConnectTimeout != 5*time.Second || up.ReadTimeout != 10*time.Second {
		t.Errorf("unexpected timeouts %+v", up)
	}
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("UPSTREAM_READ_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			AppPort:                8080,
			UpstreamBaseURL:        "http://localhost:8112/api/v1/employee",
			UpstreamConnectTimeout: time.Second,
			UpstreamReadTimeout:    time.Second,
			RetryMaxAttempts:       3,
			RetryInitialDelay:      time.Second,
			RetryMaxDelay:          5 * time.Second,
			RetryMultiplier:        2,
			RateLimitRPS:           10,
			RateLimitBurst:         20,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.AppPort = 0 }, "APP_PORT"},
		{"empty base url", func(c *Config) { c.UpstreamBaseURL = "" }, "UPSTREAM_BASE_URL"},
		{"zero connect timeout", func(c *Config) { c.UpstreamConnectTimeout = 0 }, "UPSTREAM_CONNECT_TIMEOUT"},
		{"zero read timeout", func(c *Config) { c.UpstreamReadTimeout = 0 }, "UPSTREAM_READ_TIMEOUT"},
		{"zero attempts", func(c *Config) { c.RetryMaxAttempts = 0 }, "UPSTREAM_RETRY_MAX_ATTEMPTS"},
		{"max below initial", func(c *Config) { c.RetryMaxDelay = time.Millisecond }, "UPSTREAM_RETRY_MAX_DELAY"},
		{"shrinking multiplier", func(c *Config) { c.RetryMultiplier = 0.5 }, "UPSTREAM_RETRY_MULTIPLIER"},
		{"rate limit without redis", func(c *Config) { c.RateLimitEnabled = true }, "REDIS_URL"},
		{"rate limit zero rps", func(c *Config) {
			c.RateLimitEnabled = true
			c.RedisURL = "redis://localhost:6379"
			c.RateLimitRPS = 0
		}, "RATE_LIMIT_RPS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %s, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}

	for level, want := range tests {
		cfg := &Config{LogLevel: level}
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", level, got, want)
		}
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{AppEnv: "development"}
	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return true")
	}

	cfg.AppEnv = "production"
	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return false")
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{AppEnv: "production"}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction to return true")
	}

	cfg.AppEnv = "development"
	if cfg.IsProduction() {
		t.Error("expected IsProduction to return false")
	}
}
