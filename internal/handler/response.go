package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/paisatrack/backend/internal/apperror"
	"github.com/paisatrack/backend/internal/repository"
)

// ErrorResponse represents a JSON error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// respondJSON writes a JSON response with the given status code.
// It sets the Content-Type header to application/json.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError writes a JSON error response with the given status code and message.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// notFoundSentinels are repository errors that map to a 404 regardless of
// how deeply they are wrapped.
var notFoundSentinels = []error{
	repository.ErrUserNotFound,
	repository.ErrRecurringNotFound,
	repository.ErrDebtNotFound,
	repository.ErrSavingsGoalNotFound,
	repository.ErrMilestoneNotFound,
	repository.ErrInvestmentNotFound,
	repository.ErrPaymentNotFound,
}

// respondServiceError maps a service error to an HTTP response: repository
// not-found sentinels become 404s, AppErrors carry their own status, and
// anything else is a 500 with the fallback message (internals stay out of
// the response body).
func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	for _, sentinel := range notFoundSentinels {
		if errors.Is(err, sentinel) {
			respondError(w, http.StatusNotFound, sentinel.Error())
			return
		}
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		respondJSON(w, appErr.StatusCode, ErrorResponse{Error: appErr.Message, Field: appErr.Field})
		return
	}

	respondError(w, http.StatusInternalServerError, fallback)
}
