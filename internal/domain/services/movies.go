package services

import (
	"context"

	"movierec/internal/domain/models"
)

// MovieService resolves movie metadata and artwork. Lookups never fail the
// caller: misses and transport errors degrade to empty values.
type MovieService interface {
	// Enrich returns exactly one card per item, in input order, with a nil
	// Movie where no metadata was found.
	Enrich(ctx context.Context, items []models.BasicMovieInfo) []models.MovieCardItem

	// ResolveStarterImages returns a copy of starters with Image.URL set.
	ResolveStarterImages(ctx context.Context, starters []models.ConversationStarter) []models.ConversationStarter

	// Trailer returns the embed URL of a movie's first video.
	Trailer(ctx context.Context, title string) (string, error)
}
