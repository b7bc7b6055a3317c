package movies

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"movierec/internal/config"
	"movierec/internal/domain/models"
	"movierec/internal/service/external/tmdb"
)

// Enrich pairs every proposed movie with its metadata. Lookups run
// concurrently; the result has exactly len(items) entries in input order and
// a nil Movie for every miss.
func (s *Service) Enrich(ctx context.Context, items []models.BasicMovieInfo) []models.MovieCardItem {
	out := make([]models.MovieCardItem, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.EnrichmentConcurrency)
	for i, item := range items {
		g.Go(func() error {
			out[i] = models.MovieCardItem{
				Movie:   s.Lookup(gctx, item.Title, item.Year),
				LLMData: item,
			}
			return nil
		})
	}
	_ = g.Wait() // lookups never fail the batch

	return out
}

func (s *Service) fetchMovie(ctx context.Context, title, year string) (*models.Movie, error) {
	hit, err := s.tmdb.SearchMovie(ctx, title, year)
	if err != nil {
		return nil, err
	}
	details, err := s.tmdb.MovieDetails(ctx, hit.ID)
	if err != nil {
		return nil, err
	}
	return toMovie(hit, details), nil
}

func toMovie(hit *tmdb.MovieResult, details *tmdb.MovieDetails) *models.Movie {
	director := "unknown"
	for _, c := range details.Credits.Crew {
		if c.Job == "Director" {
			director = c.Name
			break
		}
	}

	cast := details.Credits.Cast
	if len(cast) > config.ActorsPerMovie {
		cast = cast[:config.ActorsPerMovie]
	}
	actors := make([]string, len(cast))
	for i, a := range cast {
		actors[i] = a.Name
	}

	genres := make([]string, len(details.Genres))
	for i, g := range details.Genres {
		genres[i] = g.Name
	}

	duration := ""
	if details.Runtime > 0 {
		duration = strconv.Itoa(details.Runtime)
	}

	return &models.Movie{
		ID:            "0",
		URL:           tmdb.MoviePageBaseURL + strconv.Itoa(hit.ID),
		Name:          hit.OriginalTitle,
		PosterLink:    tmdb.ImageBaseURL + hit.PosterPath,
		Genres:        strings.Join(genres, ","),
		Actors:        strings.Join(actors, ","),
		Director:      director,
		Description:   hit.Overview,
		DatePublished: hit.ReleaseDate,
		RatingCount:   strconv.Itoa(hit.VoteCount),
		BestRating:    "10.0",
		WorstRating:   "1.0",
		RatingValue:   strconv.FormatFloat(hit.VoteAverage, 'f', -1, 64),
		ReviewAuthor:  "Cineanalyst",
		ReviewDate:    "2013-11-12",
		Duration:      duration,
	}
}
