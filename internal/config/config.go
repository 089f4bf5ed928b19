// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/empproxy/empproxy/internal/upstream"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	// Upstream employee directory
	UpstreamBaseURL        string        `env:"UPSTREAM_BASE_URL" envDefault:"http://localhost:8112/api/v1/employee"`
	UpstreamConnectTimeout time.Duration `env:"UPSTREAM_CONNECT_TIMEOUT" envDefault:"5s"`
	UpstreamReadTimeout    time.Duration `env:"UPSTREAM_READ_TIMEOUT" envDefault:"10s"`

	// Upstream retry policy (429 only)
	RetryMaxAttempts  int           `env:"UPSTREAM_RETRY_MAX_ATTEMPTS" envDefault:"3"`
	RetryInitialDelay time.Duration `env:"UPSTREAM_RETRY_INITIAL_DELAY" envDefault:"1s"`
	RetryMaxDelay     time.Duration `env:"UPSTREAM_RETRY_MAX_DELAY" envDefault:"5s"`
	RetryMultiplier   float64       `env:"UPSTREAM_RETRY_MULTIPLIER" envDefault:"2.0"`

	// Cache (Redis). Optional; enables the inbound rate limiter.
	RedisURL string `env:"REDIS_URL"`

	// Inbound rate limiting (per client IP, requires Redis)
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"false"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst   int  `env:"RATE_LIMIT_BURST" envDefault:"100"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate rejects values the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.AppPort <= 0 || c.AppPort > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be in 1..65535, got %d", c.AppPort))
	}
	if c.UpstreamBaseURL == "" {
		errs = append(errs, errors.New("UPSTREAM_BASE_URL must not be empty"))
	}
	if c.UpstreamConnectTimeout <= 0 {
		errs = append(errs, errors.New("UPSTREAM_CONNECT_TIMEOUT must be positive"))
	}
	if c.UpstreamReadTimeout <= 0 {
		errs = append(errs, errors.New("UPSTREAM_READ_TIMEOUT must be positive"))
	}
	if c.RetryMaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("UPSTREAM_RETRY_MAX_ATTEMPTS must be at least 1, got %d", c.RetryMaxAttempts))
	}
	if c.RetryInitialDelay <= 0 {
		errs = append(errs, errors.New("UPSTREAM_RETRY_INITIAL_DELAY must be positive"))
	}
	if c.RetryMaxDelay < c.RetryInitialDelay {
		errs = append(errs, errors.New("UPSTREAM_RETRY_MAX_DELAY must not be below UPSTREAM_RETRY_INITIAL_DELAY"))
	}
	if c.RetryMultiplier < 1 {
		errs = append(errs, fmt.Errorf("UPSTREAM_RETRY_MULTIPLIER must be at least 1, got %g", c.RetryMultiplier))
	}
	if c.RateLimitEnabled {
		if c.RedisURL == "" {
			errs = append(errs, errors.New("RATE_LIMIT_ENABLED requires REDIS_URL"))
		}
		if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
			errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
		}
	}

	return errors.Join(errs...)
}

// UpstreamConfig builds the upstream client configuration.
func (c *Config) UpstreamConfig() upstream.Config {
	return upstream.Config{
		BaseURL:        c.UpstreamBaseURL,
		ConnectTimeout: c.UpstreamConnectTimeout,
		ReadTimeout:    c.UpstreamReadTimeout,
		Retry: upstream.RetryPolicy{
			MaxAttempts:  c.RetryMaxAttempts,
			InitialDelay: c.RetryInitialDelay,
			MaxDelay:     c.RetryMaxDelay,
			Multiplier:   c.RetryMultiplier,
		},
	}
}

// SlogLevel maps LOG_LEVEL onto a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
