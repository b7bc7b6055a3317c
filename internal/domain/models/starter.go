package models

// Image kinds a conversation starter may reference.
const (
	StarterImageMovie  = "movie"
	StarterImagePerson = "person"
)

// StarterImage names the poster or portrait shown on a starter card.
// URL is filled in by image resolution and is never produced by the model.
type StarterImage struct {
	Type  string `json:"type" yaml:"type"`
	Query string `json:"query" yaml:"query"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
}

// ConversationStarter is a suggested topic the user can click to submit Prompt.
type ConversationStarter struct {
	Heading    string       `json:"heading" yaml:"heading"`
	Subheading string       `json:"subheading" yaml:"subheading"`
	Prompt     string       `json:"prompt" yaml:"prompt"`
	Image      StarterImage `json:"image" yaml:"image"`
}
