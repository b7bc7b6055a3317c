package movies

import (
	"context"
	"errors"
	"fmt"

	"movierec/internal/domain"
	"movierec/internal/service/external/tmdb"
)

// Trailer returns the YouTube embed URL of the first video TMDB lists for
// the first movie matching title.
func (s *Service) Trailer(ctx context.Context, title string) (string, error) {
	if s.tmdb == nil {
		return "", &domain.NotFoundError{Message: "trailer lookup is not configured"}
	}

	hit, err := s.tmdb.SearchMovie(ctx, title, "")
	if err != nil {
		return "", s.trailerError(title, err)
	}
	videos, err := s.tmdb.MovieVideos(ctx, hit.ID)
	if err != nil {
		return "", s.trailerError(title, err)
	}
	if len(videos) == 0 {
		return "", &domain.NotFoundError{Message: fmt.Sprintf("no trailer found for %q", title)}
	}
	return tmdb.YouTubeEmbedBaseURL + videos[0].Key, nil
}

func (s *Service) trailerError(title string, err error) error {
	if errors.Is(err, tmdb.ErrNotFound) {
		return &domain.NotFoundError{Message: fmt.Sprintf("no movie found for %q", title)}
	}
	s.logger.Warn("trailer lookup failed", "title", title, "error", err)
	return &domain.UpstreamError{Provider: "tmdb", Err: err}
}
