package handler

import (
	"log/slog"
	"net/http"

	"movierec/internal/domain/services"
	"movierec/internal/httputil"
)

// HistoryHandler handles watch history HTTP requests
type HistoryHandler struct {
	service services.HistoryService
	logger  *slog.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(service services.HistoryService, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		service: service,
		logger:  logger,
	}
}

// HistoryBody is the request and response body of the history endpoints
type HistoryBody struct {
	History string `json:"history"`
}

// GetHistory returns the user's watch history
// GET /api/users/me/history
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.Get(r.Context(), httputil.GetSession(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, HistoryBody{History: history})
}

// PutHistory replaces the user's watch history
// PUT /api/users/me/history
func (h *HistoryHandler) PutHistory(w http.ResponseWriter, r *http.Request) {
	var req HistoryBody
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Set(r.Context(), httputil.GetSession(r), req.History); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
