package movies

import (
	"context"

	"golang.org/x/sync/errgroup"

	"movierec/internal/config"
	"movierec/internal/domain/models"
	"movierec/internal/service/external/tmdb"
)

// DefaultPersonImage is shown when a person cannot be found.
const DefaultPersonImage = tmdb.ImageBaseURL + "/ar33qcWbEgREn07ZpXv5Pbj8hbM.jpg"

// PersonImage returns the profile image of the first person matching name,
// or DefaultPersonImage.
func (s *Service) PersonImage(ctx context.Context, name string) string {
	if s.tmdb == nil {
		return DefaultPersonImage
	}
	p, err := s.tmdb.SearchPerson(ctx, name)
	if err != nil || p.ProfilePath == "" {
		if err != nil {
			s.logger.Debug("person lookup failed", "name", name, "error", err)
		}
		return DefaultPersonImage
	}
	return tmdb.ImageBaseURL + p.ProfilePath
}

// MoviePoster returns the poster of a movie by exact catalog title, else the
// poster of the first TMDB search hit. Returns "" when neither has one.
func (s *Service) MoviePoster(ctx context.Context, title string) string {
	if m, ok := s.catalog.FindByTitle(title); ok && m.PosterLink != "" {
		return m.PosterLink
	}
	if s.tmdb == nil {
		return ""
	}
	hit, err := s.tmdb.SearchMovie(ctx, title, "")
	if err != nil || hit.PosterPath == "" {
		if err != nil {
			s.logger.Debug("poster lookup failed", "title", title, "error", err)
		}
		return ""
	}
	return tmdb.ImageBaseURL + hit.PosterPath
}

// ResolveStarterImages returns a copy of starters with Image.URL filled in.
func (s *Service) ResolveStarterImages(ctx context.Context, starters []models.ConversationStarter) []models.ConversationStarter {
	out := make([]models.ConversationStarter, len(starters))
	copy(out, starters)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.EnrichmentConcurrency)
	for i := range out {
		img := &out[i].Image
		if img.URL != "" {
			continue
		}
		g.Go(func() error {
			switch img.Type {
			case models.StarterImagePerson:
				img.URL = s.PersonImage(gctx, img.Query)
			case models.StarterImageMovie:
				img.URL = s.MoviePoster(gctx, img.Query)
			}
			return nil
		})
	}
	_ = g.Wait()

	return out
}
