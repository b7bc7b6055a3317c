package models

import "strings"

// Movie is the flat metadata record shared by the local catalog and the
// TMDB enrichment path. JSON keys match the catalog file.
type Movie struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Name          string `json:"Name"`
	PosterLink    string `json:"PosterLink"`
	Genres        string `json:"Genres"` // comma-joined
	Actors        string `json:"Actors"` // comma-joined
	Director      string `json:"Director"`
	Description   string `json:"Description"`
	DatePublished string `json:"DatePublished"` // YYYY-MM-DD
	Keywords      string `json:"Keywords"`
	RatingCount   string `json:"RatingCount"`
	BestRating    string `json:"BestRating"`
	WorstRating   string `json:"WorstRating"`
	RatingValue   string `json:"RatingValue"`
	ReviewAuthor  string `json:"ReviewAurthor"`
	ReviewDate    string `json:"ReviewDate"`
	ReviewBody    string `json:"ReviewBody"`
	Duration      string `json:"duration"`
}

// Year returns the year part of DatePublished, or "" when unknown.
func (m *Movie) Year() string {
	year, _, _ := strings.Cut(m.DatePublished, "-")
	return year
}

// Theme is one slice of a movie's thematic breakdown.
// Amounts are coarse weights and are not required to sum to 1.
type Theme struct {
	Theme  string  `json:"theme"`
	Amount float64 `json:"amount"`
}

// BasicMovieInfo is a single movie as proposed by the model in a
// showMovies call.
type BasicMovieInfo struct {
	Title            string   `json:"title"`
	Year             string   `json:"year"`
	Synopsis         string   `json:"synopsis"`
	ReasonsToLike    []string `json:"reasons_to_like,omitempty"`
	ReasonsToDislike []string `json:"reasons_to_dislike,omitempty"`
	Themes           []Theme  `json:"themes,omitempty"`
}

// MovieCardItem pairs the model's proposal with the resolved metadata.
// Movie is nil when neither the catalog nor TMDB knows the title.
type MovieCardItem struct {
	Movie   *Movie         `json:"movie"`
	LLMData BasicMovieInfo `json:"llmdata"`
}
