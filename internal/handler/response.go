// Package handler is the HTTP layer: it parses requests, calls services,
// and writes JSON responses. All domain-error-to-status translation lives
// in writeError so every route reports failures the same way.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/codescribe/internal/apperror"
	"github.com/sakif/codescribe/internal/gemini"
	"github.com/sakif/codescribe/internal/github"
)

// ErrorResponse is the standard error shape for domain failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// AIErrorResponse is the richer shape used for generation-API failures. It
// carries the provider's classification so clients can distinguish quota
// exhaustion from hard errors.
type AIErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details"`
	Type    string `json:"type"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain or adapter error to an HTTP response.
//
// Adapter errors keep their provider semantics: GitHub failures relay the
// provider's status and message verbatim, generation-API rate limits map
// to 429. Typed apperror values map per category. Anything else is a 500
// with a generic message so internals never leak.
func writeError(w http.ResponseWriter, err error) {
	var aiErr *gemini.APIError
	if errors.As(err, &aiErr) {
		status := http.StatusInternalServerError
		if aiErr.Type == gemini.ErrorTypeRateLimit {
			status = http.StatusTooManyRequests
		}
		writeJSON(w, status, AIErrorResponse{
			Error:   "ai_error",
			Message: aiErr.Message,
			Details: aiErr.Details,
			Type:    aiErr.Type,
		})
		return
	}

	var ghErr *github.APIError
	if errors.As(err, &ghErr) {
		status := ghErr.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, ErrorResponse{
			Error:   "github_error",
			Message: ghErr.Message,
		})
		return
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		case errors.Is(err, apperror.ErrRateLimited):
			status = http.StatusTooManyRequests
			errorType = "rate_limited"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Unclassified failures surface the underlying message so callers can
	// tell a mail relay outage from a storage fault.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	})
}
