package tmdb

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		AccessToken: "token",
		BaseURL:     srv.URL,
		Timeout:     time.Second,
		RateLimit:   100,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSearchMovie(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.Equal(t, "Heat", r.URL.Query().Get("query"))
		assert.Equal(t, "1995", r.URL.Query().Get("year"))
		assert.Equal(t, "false", r.URL.Query().Get("include_adult"))
		_, _ = w.Write([]byte(`{"results":[{"id":949,"original_title":"Heat","poster_path":"/p.jpg","release_date":"1995-12-15","vote_average":7.9,"vote_count":7000}]}`))
	})

	res, err := c.SearchMovie(context.Background(), "Heat", "1995")
	require.NoError(t, err)
	assert.Equal(t, 949, res.ID)
	assert.Equal(t, 7.9, res.VoteAverage)
}

func TestSearchMovie_NoResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	_, err := c.SearchMovie(context.Background(), "Unobtainium", "2099")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMovieDetails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/949", r.URL.Path)
		assert.Equal(t, "credits", r.URL.Query().Get("append_to_response"))
		_, _ = w.Write([]byte(`{"id":949,"runtime":170,"genres":[{"id":1,"name":"Crime"}],
			"credits":{"cast":[{"name":"Al Pacino"}],"crew":[{"name":"Michael Mann","job":"Director"}]}}`))
	})

	d, err := c.MovieDetails(context.Background(), 949)
	require.NoError(t, err)
	assert.Equal(t, 170, d.Runtime)
	assert.Equal(t, "Michael Mann", d.Credits.Crew[0].Name)
}

func TestRetry(t *testing.T) {
	t.Run("retries once on 5xx", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(`{"results":[{"id":1,"name":"Greta Gerwig","profile_path":"/g.jpg"}]}`))
		})

		p, err := c.SearchPerson(context.Background(), "Greta Gerwig")
		require.NoError(t, err)
		assert.Equal(t, "/g.jpg", p.ProfilePath)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("gives up after one retry", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := c.MovieVideos(context.Background(), 1)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("does not retry 4xx", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := c.SearchMovie(context.Background(), "x", "")
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	start := time.Now()
	_, err := c.SearchMovie(context.Background(), "slow", "")
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
