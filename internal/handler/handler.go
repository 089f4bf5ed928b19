// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/empproxy/empproxy/internal/handler/dto"
)

// Handler serves the router-level fallbacks.
type Handler struct {
	logger *slog.Logger
}

// New creates a new Handler instance.
func New(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, dto.ErrorResponse{
		Error: "resource not found",
		Code:  "NOT_FOUND",
	})
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, dto.ErrorResponse{
		Error: "method not allowed",
		Code:  "METHOD_NOT_ALLOWED",
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing useful can be done with an encode error.
	_ = json.NewEncoder(w).Encode(data)
}
