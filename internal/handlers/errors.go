package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"aibox/internal/contextutil"
	"aibox/internal/indexer"
	"aibox/internal/llm"
	"aibox/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps service and provider errors to an HTTP status and a client message.
func statusFor(err error, defaultMsg string) (int, string) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Error()
	}

	var unsupported *indexer.UnsupportedInputError
	if errors.As(err, &unsupported) {
		return http.StatusBadRequest, unsupported.Error()
	}

	if errors.Is(err, service.ErrInvalidInput) {
		return http.StatusBadRequest, "Invalid input"
	}

	if errors.Is(err, service.ErrNotFound) {
		return http.StatusNotFound, "Resource not found"
	}

	// Missing credentials surface before any upstream call is made.
	var configErr *llm.ConfigError
	if errors.As(err, &configErr) {
		return http.StatusPreconditionFailed, configErr.Msg
	}

	var apiErr *llm.APIError
	var transportErr *llm.TransportError
	if errors.Is(err, service.ErrExternalService) || errors.As(err, &apiErr) || errors.As(err, &transportErr) {
		return http.StatusBadGateway, "External service error"
	}

	return http.StatusInternalServerError, defaultMsg
}

// handleServiceError logs err and writes the mapped error response.
func handleServiceError(ctx context.Context, w http.ResponseWriter, err error, defaultMsg string) {
	status, msg := statusFor(err, defaultMsg)
	logger := contextutil.LoggerFromContext(ctx)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "service error", "error", err, "status", status)
	} else {
		logger.WarnContext(ctx, "request rejected", "error", err, "status", status)
	}
	writeError(w, status, msg)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// writeJSON writes v with statusCode.
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		contextutil.LoggerFromContext(r.Context()).WarnContext(r.Context(), "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
