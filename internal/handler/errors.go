package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"movierec/internal/domain"
	"movierec/internal/httputil"
)

// errorStatus maps a domain error to its HTTP status and client-facing detail.
// Unknown errors become a 500 with a generic message.
func errorStatus(err error) (int, string) {
	var upstreamErr *domain.UpstreamError

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.As(err, &upstreamErr):
		return http.StatusBadGateway, upstreamErr.Provider + " request failed"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, detail := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	}
	httputil.RespondError(w, status, detail)
}
