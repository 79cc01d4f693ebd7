// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gatehouse/gatehouse/internal/handler/dto"
	"github.com/gatehouse/gatehouse/internal/model"
)

// Handler provides shared fallback handlers.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers already sent, nothing useful left to do
		_ = err
	}
}

// writeError writes a standardized JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// writeAuthChallenge writes a 401 with the WWW-Authenticate challenge header.
func writeAuthChallenge(w http.ResponseWriter, code, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, code, message)
}

// validationError maps a model validation error to a 422 response.
// Returns false if the error is not a validation error.
func validationError(w http.ResponseWriter, err error) bool {
	for _, verr := range []error{
		model.ErrUsernameTooShort,
		model.ErrUsernameTooLong,
		model.ErrUsernameInvalid,
		model.ErrEmailInvalid,
		model.ErrEmailTooLong,
		model.ErrPasswordTooShort,
		model.ErrPasswordTooLong,
	} {
		if errors.Is(err, verr) {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", verr.Error())
			return true
		}
	}
	return false
}
