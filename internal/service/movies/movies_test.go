package movies

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movierec/internal/catalog"
	"movierec/internal/domain"
	"movierec/internal/domain/models"
	"movierec/internal/service/external/tmdb"
)

type fakeTMDB struct {
	mu      sync.Mutex
	calls   []string
	movies  map[string]*tmdb.MovieResult
	details map[int]*tmdb.MovieDetails
	people  map[string]*tmdb.PersonResult
	videos  map[int][]tmdb.Video
	failAll bool
}

func (f *fakeTMDB) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeTMDB) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeTMDB) SearchMovie(_ context.Context, title, _ string) (*tmdb.MovieResult, error) {
	f.record("search:" + title)
	if f.failAll {
		return nil, &tmdb.APIError{StatusCode: 500}
	}
	if m, ok := f.movies[title]; ok {
		return m, nil
	}
	return nil, tmdb.ErrNotFound
}

func (f *fakeTMDB) MovieDetails(_ context.Context, id int) (*tmdb.MovieDetails, error) {
	f.record("details")
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return nil, &tmdb.APIError{StatusCode: 404}
}

func (f *fakeTMDB) SearchPerson(_ context.Context, name string) (*tmdb.PersonResult, error) {
	f.record("person:" + name)
	if p, ok := f.people[name]; ok {
		return p, nil
	}
	return nil, tmdb.ErrNotFound
}

func (f *fakeTMDB) MovieVideos(_ context.Context, id int) ([]tmdb.Video, error) {
	f.record("videos")
	return f.videos[id], nil
}

func newTestService(t *testing.T, fake *fakeTMDB) *Service {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	return NewService(cat, fake, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func heatFake() *fakeTMDB {
	return &fakeTMDB{
		movies: map[string]*tmdb.MovieResult{
			"Heat": {ID: 949, OriginalTitle: "Heat", Overview: "A cop and a thief.", PosterPath: "/heat.jpg",
				ReleaseDate: "1995-12-15", VoteAverage: 7.9, VoteCount: 7000},
		},
		details: map[int]*tmdb.MovieDetails{
			949: {ID: 949, Runtime: 170,
				Genres: []tmdb.Genre{{Name: "Crime"}, {Name: "Drama"}},
				Credits: tmdb.Credits{
					Cast: []tmdb.CastMember{{Name: "Al Pacino"}, {Name: "Robert De Niro"}, {Name: "Val Kilmer"}, {Name: "Jon Voight"}, {Name: "Tom Sizemore"}},
					Crew: []tmdb.CrewMember{{Name: "Someone", Job: "Producer"}, {Name: "Michael Mann", Job: "Director"}},
				}},
		},
	}
}

func TestEnrich_CatalogHitSkipsTMDB(t *testing.T) {
	fake := heatFake()
	svc := newTestService(t, fake)

	items := svc.Enrich(context.Background(), []models.BasicMovieInfo{{Title: "Die Hard", Year: "1988"}})

	require.Len(t, items, 1)
	require.NotNil(t, items[0].Movie)
	assert.Equal(t, "John McTiernan", items[0].Movie.Director)
	assert.Zero(t, fake.callCount())
}

func TestEnrich_RemoteFallback(t *testing.T) {
	svc := newTestService(t, heatFake())

	items := svc.Enrich(context.Background(), []models.BasicMovieInfo{{Title: "Heat", Year: "1995", Synopsis: "s"}})

	require.NotNil(t, items[0].Movie)
	m := items[0].Movie
	assert.Equal(t, "Michael Mann", m.Director)
	assert.Equal(t, "Al Pacino,Robert De Niro,Val Kilmer,Jon Voight", m.Actors)
	assert.Equal(t, "Crime,Drama", m.Genres)
	assert.Equal(t, "https://image.tmdb.org/t/p/w200/heat.jpg", m.PosterLink)
	assert.Equal(t, "https://www.themoviedb.org/movie/949", m.URL)
	assert.Equal(t, "7.9", m.RatingValue)
	assert.Equal(t, "7000", m.RatingCount)
	assert.Equal(t, "170", m.Duration)
	assert.Equal(t, "s", items[0].LLMData.Synopsis)
}

func TestEnrich_MissAndOrder(t *testing.T) {
	fake := heatFake()
	fake.details[949].Credits.Crew = nil
	svc := newTestService(t, fake)

	in := []models.BasicMovieInfo{
		{Title: "Unobtainium", Year: "2099"},
		{Title: "Heat", Year: "1995"},
		{Title: "Toy Story", Year: "1995"},
	}
	items := svc.Enrich(context.Background(), in)

	require.Len(t, items, 3)
	for i := range in {
		assert.Equal(t, in[i].Title, items[i].LLMData.Title)
	}
	assert.Nil(t, items[0].Movie)
	assert.Equal(t, "unknown", items[1].Movie.Director)
	assert.Equal(t, "John Lasseter", items[2].Movie.Director)
}

func TestEnrich_TransportFailureYieldsNil(t *testing.T) {
	svc := newTestService(t, &fakeTMDB{failAll: true})

	items := svc.Enrich(context.Background(), []models.BasicMovieInfo{{Title: "Heat"}, {Title: "Alien"}})
	require.Len(t, items, 2)
	assert.Nil(t, items[0].Movie)
	assert.Nil(t, items[1].Movie)
}

func TestResolveStarterImages(t *testing.T) {
	fake := heatFake()
	fake.people = map[string]*tmdb.PersonResult{"Greta Gerwig": {ProfilePath: "/greta.jpg"}}
	svc := newTestService(t, fake)

	in := []models.ConversationStarter{
		{Heading: "a", Image: models.StarterImage{Type: models.StarterImageMovie, Query: "Toy Story"}},
		{Heading: "b", Image: models.StarterImage{Type: models.StarterImageMovie, Query: "Heat"}},
		{Heading: "c", Image: models.StarterImage{Type: models.StarterImagePerson, Query: "Greta Gerwig"}},
		{Heading: "d", Image: models.StarterImage{Type: models.StarterImagePerson, Query: "Nobody"}},
	}
	out := svc.ResolveStarterImages(context.Background(), in)

	assert.Contains(t, out[0].Image.URL, "image.tmdb.org")
	assert.Equal(t, "https://image.tmdb.org/t/p/w200/heat.jpg", out[1].Image.URL)
	assert.Equal(t, "https://image.tmdb.org/t/p/w200/greta.jpg", out[2].Image.URL)
	assert.Equal(t, DefaultPersonImage, out[3].Image.URL)
	assert.Empty(t, in[0].Image.URL, "input must not be mutated")
}

func TestTrailer(t *testing.T) {
	fake := heatFake()
	fake.videos = map[int][]tmdb.Video{949: {{Key: "abc123", Site: "YouTube"}}}
	svc := newTestService(t, fake)

	url, err := svc.Trailer(context.Background(), "Heat")
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/embed/abc123", url)

	_, err = svc.Trailer(context.Background(), "Unobtainium")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTrailer_Upstream(t *testing.T) {
	svc := newTestService(t, &fakeTMDB{failAll: true})

	_, err := svc.Trailer(context.Background(), "Heat")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}
