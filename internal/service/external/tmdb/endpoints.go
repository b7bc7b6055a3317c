package tmdb

import (
	"context"
	"fmt"
	"net/url"
)

func searchQuery(query string) url.Values {
	v := url.Values{}
	v.Set("query", query)
	v.Set("include_adult", "false")
	v.Set("language", "en-US")
	v.Set("page", "1")
	return v
}

// SearchMovie returns the first /search/movie hit for title, narrowed by
// year when non-empty. Returns ErrNotFound when nothing matches.
func (c *Client) SearchMovie(ctx context.Context, title, year string) (*MovieResult, error) {
	q := searchQuery(title)
	if year != "" {
		q.Set("year", year)
	}

	var res page[MovieResult]
	if err := c.get(ctx, "/search/movie", q, &res); err != nil {
		return nil, err
	}
	if len(res.Results) == 0 {
		return nil, ErrNotFound
	}
	return &res.Results[0], nil
}

// MovieDetails fetches a movie with its credits.
func (c *Client) MovieDetails(ctx context.Context, id int) (*MovieDetails, error) {
	q := url.Values{}
	q.Set("language", "en-US")
	q.Set("append_to_response", "credits")

	var details MovieDetails
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), q, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// SearchPerson returns the first /search/person hit for name.
func (c *Client) SearchPerson(ctx context.Context, name string) (*PersonResult, error) {
	var res page[PersonResult]
	if err := c.get(ctx, "/search/person", searchQuery(name), &res); err != nil {
		return nil, err
	}
	if len(res.Results) == 0 {
		return nil, ErrNotFound
	}
	return &res.Results[0], nil
}

// MovieVideos lists the videos attached to a movie.
func (c *Client) MovieVideos(ctx context.Context, id int) ([]Video, error) {
	q := url.Values{}
	q.Set("language", "en-US")

	var res page[Video]
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/videos", id), q, &res); err != nil {
		return nil, err
	}
	return res.Results, nil
}
