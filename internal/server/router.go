package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/empproxy/empproxy/internal/handler"
	"github.com/empproxy/empproxy/internal/metrics"
	"github.com/empproxy/empproxy/internal/middleware"
	"github.com/empproxy/empproxy/internal/service"
)

// RouterConfig carries everything the HTTP surface is built from.
type RouterConfig struct {
	Logger             *slog.Logger
	Service            *service.EmployeeService
	Upstream           handler.HealthChecker
	Cache              handler.HealthChecker
	Metrics            metrics.Snapshotter
	RateLimit          middleware.RateLimitConfig
	IsDevelopment      bool
	MaxRequestBodySize int64
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := handler.New(logger)
	healthHandler := handler.NewHealthHandler(cfg.Upstream, cfg.Cache)
	metricsHandler := handler.NewMetricsHandler(cfg.Metrics)
	employeeHandler := handler.NewEmployeeHandler(cfg.Service, logger)

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	rateLimit := cfg.RateLimit
	if rateLimit.Logger == nil {
		rateLimit.Logger = logger
	}

	r.Route("/employees", func(r chi.Router) {
		r.Use(middleware.RateLimitIP(rateLimit))
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
		employeeHandler.Routes(r)
	})

	return r
}
