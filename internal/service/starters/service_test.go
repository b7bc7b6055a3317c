package starters

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movierec/internal/config"
	"movierec/internal/domain/models"
)

type stubMovies struct {
	calls int
	fail  bool
}

func (s *stubMovies) Enrich(context.Context, []models.BasicMovieInfo) []models.MovieCardItem { return nil }
func (s *stubMovies) Trailer(context.Context, string) (string, error)                      { return "", nil }

func (s *stubMovies) ResolveStarterImages(_ context.Context, in []models.ConversationStarter) []models.ConversationStarter {
	s.calls++
	out := make([]models.ConversationStarter, len(in))
	copy(out, in)
	if !s.fail {
		for i := range out {
			out[i].Image.URL = "https://img/" + out[i].Image.Query
		}
	}
	return out
}

func TestDefaults(t *testing.T) {
	movies := &stubMovies{}
	svc, err := NewService(movies)
	require.NoError(t, err)

	got := svc.Defaults(context.Background())
	require.Len(t, got, config.ConversationStarterCount)
	assert.Equal(t, "Comedies for the whole family", got[0].Heading)
	assert.Equal(t, models.StarterImageMovie, got[0].Image.Type)
	assert.Equal(t, "https://img/Toy Story", got[0].Image.URL)
	assert.Equal(t, models.StarterImagePerson, got[3].Image.Type)
	assert.Equal(t, "Brad Pitt", got[3].Image.Query)

	svc.Defaults(context.Background())
	assert.Equal(t, 1, movies.calls, "resolved images are cached")
}

func TestDefaults_RetryIncomplete(t *testing.T) {
	movies := &stubMovies{fail: true}
	svc, err := NewService(movies)
	require.NoError(t, err)

	svc.Defaults(context.Background())
	svc.Defaults(context.Background())
	assert.Equal(t, 2, movies.calls)
}

// gatedMovies blocks every resolution until release is closed.
type gatedMovies struct {
	stubMovies
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (g *gatedMovies) ResolveStarterImages(ctx context.Context, in []models.ConversationStarter) []models.ConversationStarter {
	if g.calls.Add(1) == 1 {
		close(g.started)
	}
	<-g.release
	out := make([]models.ConversationStarter, len(in))
	copy(out, in)
	for i := range out {
		out[i].Image.URL = "https://img/" + out[i].Image.Query
	}
	return out
}

func TestDefaults_ConcurrentFirstCallersShareResolution(t *testing.T) {
	movies := &gatedMovies{started: make(chan struct{}), release: make(chan struct{})}
	svc, err := NewService(movies)
	require.NoError(t, err)

	const callers = 8
	results := make([][]models.ConversationStarter, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = svc.Defaults(context.Background())
		}()
	}

	select {
	case <-movies.started:
	case <-time.After(2 * time.Second):
		t.Fatal("resolution never started")
	}
	// a slow lookup must not hold the cache lock
	svc.mu.RLock()
	assert.Nil(t, svc.resolved)
	svc.mu.RUnlock()

	close(movies.release)
	wg.Wait()

	assert.Equal(t, int32(1), movies.calls.Load())
	for _, got := range results {
		require.Len(t, got, config.ConversationStarterCount)
		assert.Equal(t, "https://img/Toy Story", got[0].Image.URL)
	}

	svc.Defaults(context.Background())
	assert.Equal(t, int32(1), movies.calls.Load(), "resolved images are cached")
}
