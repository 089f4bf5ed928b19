package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/empproxy/empproxy/internal/handler/dto"
	"github.com/empproxy/empproxy/internal/service"
	"github.com/empproxy/empproxy/internal/upstream"
)

// EmployeeHandler handles HTTP requests for employee operations.
type EmployeeHandler struct {
	svc    *service.EmployeeService
	logger *slog.Logger
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(svc *service.EmployeeService, logger *slog.Logger) *EmployeeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmployeeHandler{
		svc:    svc,
		logger: logger,
	}
}

// Routes mounts the employee endpoints on r.
func (h *EmployeeHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/search/{q}", h.Search)
	r.Get("/highestSalary", h.HighestSalary)
	r.Get("/topTenHighestEarningEmployeeNames", h.TopTenNames)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
}

// List handles GET /employees.
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.svc.ListEmployees(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

// Search handles GET /employees/search/{q}.
func (h *EmployeeHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := pathParam(r, "q")

	employees, err := h.svc.SearchByName(r.Context(), query)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

// Get handles GET /employees/{id}.
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Employee ID is required")
		return
	}

	emp, err := h.svc.GetEmployee(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emp)
}

// HighestSalary handles GET /employees/highestSalary.
func (h *EmployeeHandler) HighestSalary(w http.ResponseWriter, r *http.Request) {
	salary, err := h.svc.HighestSalary(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, salary)
}

// TopTenNames handles GET /employees/topTenHighestEarningEmployeeNames.
func (h *EmployeeHandler) TopTenNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.TopEarningNames(r.Context(), service.DefaultTopEarnersLimit)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

// Create handles POST /employees.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	emp, err := h.svc.CreateEmployee(r.Context(), req.ToInput())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, emp)
}

// Delete handles DELETE /employees/{id}.
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Employee ID is required")
		return
	}

	name, err := h.svc.DeleteEmployee(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, name)
}

// handleServiceError maps service errors to HTTP responses.
func (h *EmployeeHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Code:    "VALIDATION_FAILED",
			Details: vErr.Fields,
		})
		return
	case errors.Is(err, service.ErrEmployeeNotFound):
		h.writeError(w, http.StatusNotFound, "EMPLOYEE_NOT_FOUND", "Employee not found")
		return
	}

	code, message := "INTERNAL_ERROR", "Internal server error"
	switch {
	case errors.Is(err, upstream.ErrRateLimitExhausted):
		code, message = "UPSTREAM_RATE_LIMITED", "Upstream service unavailable, rate limit retries exhausted"
	case errors.Is(err, service.ErrDeleteFailed):
		code, message = "DELETE_FAILED", "Upstream failed to delete employee"
	case errors.Is(err, upstream.ErrNetwork):
		code, message = "UPSTREAM_UNREACHABLE", "Upstream service unreachable"
	case errors.Is(err, upstream.ErrUpstream):
		code, message = "UPSTREAM_ERROR", "Upstream service error"
	}

	h.logger.Error("request_failed",
		"method", r.Method,
		"path", r.URL.Path,
		"code", code,
		"error", err,
	)
	h.writeError(w, http.StatusInternalServerError, code, message)
}

func (h *EmployeeHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// pathParam returns the decoded chi URL parameter.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
