package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/repositories"
)

// apiResponse is the envelope every endpoint replies with.
type apiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// apiError carries an HTTP status alongside a client-safe message. Handlers
// return these from their helpers; respondError maps anything else to a 500.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string { return e.Message }

func badRequest(message string) *apiError {
	return &apiError{Status: http.StatusBadRequest, Message: message}
}

func unauthorized(message string) *apiError {
	return &apiError{Status: http.StatusUnauthorized, Message: message}
}

func forbidden(message string) *apiError {
	return &apiError{Status: http.StatusForbidden, Message: message}
}

func notFound(message string) *apiError {
	return &apiError{Status: http.StatusNotFound, Message: message}
}

func conflict(message string) *apiError {
	return &apiError{Status: http.StatusConflict, Message: message}
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, message string, data any) {
	payload := apiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
	}
}

// respondError translates an error into the response envelope. Repository
// sentinels get their conventional statuses so handlers can pass lookup
// failures straight through.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := logging.FromContext(ctx)

	var apiErr *apiError
	switch {
	case errors.As(err, &apiErr):
	case errors.Is(err, repositories.ErrNotFound):
		apiErr = notFound("resource not found")
	case errors.Is(err, repositories.ErrConflict):
		apiErr = conflict("resource already exists")
	default:
		apiErr = &apiError{Status: http.StatusInternalServerError, Message: "internal server error"}
	}

	if apiErr.Status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", apiErr.Status, "error", err)
	} else {
		logger.Warn("request returned client error", "status", apiErr.Status, "message", apiErr.Message)
	}

	respondJSON(ctx, w, apiErr.Status, apiErr.Message, nil)
}
