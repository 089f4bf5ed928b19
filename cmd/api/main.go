// Package main is the entrypoint for the employee directory proxy.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/empproxy/empproxy/internal/cache"
	"github.com/empproxy/empproxy/internal/config"
	"github.com/empproxy/empproxy/internal/metrics"
	"github.com/empproxy/empproxy/internal/middleware"
	"github.com/empproxy/empproxy/internal/server"
	"github.com/empproxy/empproxy/internal/service"
	"github.com/empproxy/empproxy/internal/upstream"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	recorder := metrics.NewInMemory()

	client, err := upstream.New(cfg.UpstreamConfig(), logger, recorder)
	if err != nil {
		return err
	}

	svc, err := service.NewEmployeeService(client, logger, recorder)
	if err != nil {
		return err
	}

	// Redis is optional; without it the inbound rate limiter stays off.
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to Redis",
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			return err
		}
		logger.Info("connected to Redis")
	}

	routerCfg := server.RouterConfig{
		Logger:             logger,
		Service:            svc,
		Upstream:           client,
		Metrics:            recorder,
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		RateLimit: middleware.RateLimitConfig{
			Logger:  logger,
			Enabled: cfg.RateLimitEnabled,
			RPS:     cfg.RateLimitRPS,
			Burst:   cfg.RateLimitBurst,
		},
	}
	if cacheClient != nil {
		routerCfg.Cache = cacheClient
		routerCfg.RateLimit.Limiter = cacheClient
	}

	srv := server.New(server.NewRouter(routerCfg), server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"upstream", redactURL(client.BaseURL()),
		"env", cfg.AppEnv,
		"rate_limit", cfg.RateLimitEnabled,
	)

	return srv.Run(ctx)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}
	if parsed.User != nil {
		parsed.User = url.User("redacted")
	}
	return parsed.String()
}
