// Package movies resolves model-proposed titles to full metadata and looks up
// the images and trailers the UI shows alongside them.
package movies

import (
	"context"
	"log/slog"

	"movierec/internal/catalog"
	"movierec/internal/domain/models"
	"movierec/internal/service/external/tmdb"
)

// TMDB is the subset of the TMDB client the service calls.
type TMDB interface {
	SearchMovie(ctx context.Context, title, year string) (*tmdb.MovieResult, error)
	MovieDetails(ctx context.Context, id int) (*tmdb.MovieDetails, error)
	SearchPerson(ctx context.Context, name string) (*tmdb.PersonResult, error)
	MovieVideos(ctx context.Context, id int) ([]tmdb.Video, error)
}

// Service implements services.MovieService
type Service struct {
	catalog *catalog.Catalog
	tmdb    TMDB
	logger  *slog.Logger
}

// NewService creates a movie service. tmdb may be nil, in which case only the
// local catalog is consulted.
func NewService(cat *catalog.Catalog, client TMDB, logger *slog.Logger) *Service {
	return &Service{catalog: cat, tmdb: client, logger: logger}
}

// Lookup resolves one title: local catalog first, then TMDB.
// Returns nil when neither source knows the movie.
func (s *Service) Lookup(ctx context.Context, title, year string) *models.Movie {
	if m, ok := s.catalog.FindByTitleAndYear(title, year); ok {
		return m
	}
	if s.tmdb == nil {
		return nil
	}

	m, err := s.fetchMovie(ctx, title, year)
	if err != nil {
		s.logger.Warn("movie lookup failed", "title", title, "year", year, "error", err)
		return nil
	}
	return m
}
