package handler

import (
	"context"
	"net/http"
	"time"
)

const readinessTimeout = 5 * time.Second

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	upstream HealthChecker
	cache    HealthChecker
}

// NewHealthHandler creates a new HealthHandler.
// Pass nil for cache when Redis is not configured.
func NewHealthHandler(upstream, cache HealthChecker) *HealthHandler {
	return &HealthHandler{
		upstream: upstream,
		cache:    cache,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is a liveness probe endpoint.
// It returns 200 if the server is running and checks no dependencies.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz is a readiness probe endpoint.
// It returns 200 only if every configured dependency answers.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	check := func(name string, checker HealthChecker) {
		if checker == nil {
			checks[name] = "not configured"
			return
		}
		if err := checker.Ping(ctx); err != nil {
			checks[name] = "error: " + err.Error()
			healthy = false
			return
		}
		checks[name] = "ok"
	}

	check("upstream", h.upstream)
	check("redis", h.cache)

	status := "ok"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, HealthResponse{
		Status: status,
		Checks: checks,
	})
}
