package models

// RefineSearchQuery is the filter a user accumulates from movie card
// checkboxes. It is never persisted or sent to the model as-is.
type RefineSearchQuery struct {
	Actors     []string `json:"actors,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
	Year       *int     `json:"year,omitempty"`
	Duration   *int     `json:"duration,omitempty"` // minutes
	Director   string   `json:"director,omitempty"`
	LikeTitles []string `json:"like_titles,omitempty"`
	Language   string   `json:"language,omitempty"`
}
