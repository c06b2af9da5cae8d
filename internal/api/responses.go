package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	app_errors "vpaura/backend/internal/errors"
)

// Shared response DTOs and helpers for consistent HTTP responses.

// ErrorResponse defines the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse defines a generic success response.
type StatusResponse struct {
	Status string `json:"status"`
}

// CreateSessionRequest is the DTO for creating an empty session.
type CreateSessionRequest struct {
	UserID int64  `json:"user_id" validate:"required,gt=0" example:"1"`
	Name   string `json:"name" validate:"required,min=1,max=255" example:"Trip planning"`
}

// CreateUserRequest is the DTO for registering a user.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=1,max=100" example:"ada"`
	Email    string `json:"email" validate:"required,email,max=255" example:"ada@example.com"`
	FullName string `json:"fullname" validate:"max=255" example:"Ada Lovelace"`
}

// CreateDocumentRequest is the DTO for storing a reference document.
type CreateDocumentRequest struct {
	UserID  int64  `json:"user_id" validate:"required,gt=0" example:"1"`
	Title   string `json:"title" validate:"required,min=1,max=255" example:"Travel policy"`
	Content string `json:"content" validate:"required,min=1,max=100000" example:"Economy class for flights under six hours."`
}

// respondWithError maps business-layer errors to HTTP status codes and
// writes a standard JSON error response.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		// Validation messages are already user-facing.
		message = err.Error()
	case errors.Is(err, app_errors.ErrConflict):
		statusCode = http.StatusConflict
		message = err.Error()
	case errors.Is(err, app_errors.ErrDatabase):
		statusCode = http.StatusInternalServerError
		message = "A database error occurred."
	case errors.Is(err, app_errors.ErrSafetyBlocked):
		statusCode = http.StatusUnprocessableEntity
		message = "The request was blocked by the content policy."
	case errors.Is(err, app_errors.ErrInvocation):
		statusCode = http.StatusBadGateway
		message = "The language model could not be reached."
	default:
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondWithJSON marshals payload and writes it with the given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}
