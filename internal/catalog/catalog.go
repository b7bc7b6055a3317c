// Package catalog serves the bundled movie metadata used before any remote
// lookup.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"movierec/internal/domain/models"
)

//go:embed data/movies.json
var moviesJSON []byte

// Catalog is an immutable in-memory list of movies. Safe for concurrent use.
type Catalog struct {
	movies []models.Movie
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(moviesJSON)
}

// Parse builds a catalog from a JSON array of movies.
func Parse(data []byte) (*Catalog, error) {
	var movies []models.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &Catalog{movies: movies}, nil
}

// Len returns the number of movies.
func (c *Catalog) Len() int { return len(c.movies) }

// FindByTitleAndYear returns the first movie named title released in year.
// When year is empty or no movie matches it, the first movie with that title
// is returned regardless of year. Matching is exact.
func (c *Catalog) FindByTitleAndYear(title, year string) (*models.Movie, bool) {
	if year != "" {
		for i := range c.movies {
			if c.movies[i].Name == title && c.movies[i].Year() == year {
				return c.copyAt(i), true
			}
		}
	}
	return c.FindByTitle(title)
}

// FindByTitle returns the first movie named title.
func (c *Catalog) FindByTitle(title string) (*models.Movie, bool) {
	for i := range c.movies {
		if c.movies[i].Name == title {
			return c.copyAt(i), true
		}
	}
	return nil, false
}

func (c *Catalog) copyAt(i int) *models.Movie {
	m := c.movies[i]
	return &m
}
