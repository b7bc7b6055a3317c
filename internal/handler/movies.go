package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"movierec/internal/domain/services"
	"movierec/internal/httputil"
)

// MoviesHandler serves starters and movie media lookups
type MoviesHandler struct {
	movies   services.MovieService
	starters services.StarterService
	logger   *slog.Logger
}

// NewMoviesHandler creates a new movies handler
func NewMoviesHandler(movies services.MovieService, starters services.StarterService, logger *slog.Logger) *MoviesHandler {
	return &MoviesHandler{
		movies:   movies,
		starters: starters,
		logger:   logger,
	}
}

// GetStarters returns the default conversation starters with images
// GET /api/starters
func (h *MoviesHandler) GetStarters(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.starters.Defaults(r.Context()))
}

// GetTrailer returns the embed URL of a movie's first video
// GET /api/movies/trailer?title=
func (h *MoviesHandler) GetTrailer(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		httputil.RespondError(w, http.StatusBadRequest, "title query parameter is required")
		return
	}

	url, err := h.movies.Trailer(r.Context(), title)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"url": url})
}
