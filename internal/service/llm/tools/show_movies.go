package tools

import (
	"context"
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/tmc/langchaingo/llms"

	"movierec/internal/domain"
	"movierec/internal/domain/models"
	"movierec/internal/domain/services"
)

// ShowMoviesToolName is the tool the model calls to recommend movies.
const ShowMoviesToolName = models.ToolShowMovies

// ShowMoviesTool renders a list of recommended movies as cards.
type ShowMoviesTool struct {
	movies services.MovieService
	config *ToolConfig
}

// NewShowMoviesTool creates the showMovies tool.
func NewShowMoviesTool(movies services.MovieService, config *ToolConfig) *ShowMoviesTool {
	if config == nil {
		config = DefaultToolConfig()
	}
	return &ShowMoviesTool{movies: movies, config: config}
}

type showMoviesArgs struct {
	Introduction string                  `json:"introduction"`
	Movies       []models.BasicMovieInfo `json:"movies"`
}

func (t *ShowMoviesTool) Definition() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        ShowMoviesToolName,
			Description: "Display one or more movie cards.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"introduction": map[string]any{"type": "string"},
					"movies": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"title": map[string]any{"type": "string", "description": "The title of the movie"},
								"year":  map[string]any{"type": "string", "description": "The year the movie was released."},
								"synopsis": map[string]any{
									"type":        "string",
									"description": "A personalized synopsis of the movie based on the user preferences and watching history.",
								},
								"reasons_to_like":    map[string]any{"type": []string{"array", "null"}, "items": map[string]any{"type": "string"}},
								"reasons_to_dislike": map[string]any{"type": []string{"array", "null"}, "items": map[string]any{"type": "string"}},
								"themes": map[string]any{
									"type": []string{"array", "null"},
									"items": map[string]any{
										"type": "object",
										"properties": map[string]any{
											"theme":  map[string]any{"type": "string", "description": "The theme of the movie."},
											"amount": map[string]any{"type": "number", "description": "The amount of the theme."},
										},
										"required": []string{"theme", "amount"},
									},
								},
							},
							"required": []string{"title", "year", "synopsis"},
						},
					},
				},
				"required": []string{"introduction", "movies"},
			},
		},
	}
}

func (t *ShowMoviesTool) Decode(arguments string) (*Invocation, error) {
	var args showMoviesArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return nil, fmt.Errorf("%w: showMovies arguments: %v", domain.ErrValidation, err)
	}

	err := validation.ValidateStruct(&args,
		validation.Field(&args.Movies,
			validation.Required,
			validation.Length(1, t.config.MaxMovies),
			validation.Each(validation.By(validateMovie)),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: showMovies arguments: %v", domain.ErrValidation, err)
	}

	content, err := json.Marshal(args.Movies)
	if err != nil {
		return nil, fmt.Errorf("encode movies: %w", err)
	}
	return &Invocation{Content: content, Introduction: args.Introduction}, nil
}

func validateMovie(value interface{}) error {
	m, ok := value.(models.BasicMovieInfo)
	if !ok {
		return fmt.Errorf("invalid movie type")
	}
	return validation.ValidateStruct(&m,
		validation.Field(&m.Title, validation.Required),
		validation.Field(&m.Year, validation.Required),
		validation.Field(&m.Synopsis, validation.Required),
		validation.Field(&m.Themes, validation.Each(validation.By(validateTheme))),
	)
}

func validateTheme(value interface{}) error {
	th, ok := value.(models.Theme)
	if !ok {
		return fmt.Errorf("invalid theme type")
	}
	return validation.ValidateStruct(&th,
		validation.Field(&th.Theme, validation.Required),
		validation.Field(&th.Amount, validation.Min(0.0)),
	)
}

func (t *ShowMoviesTool) Project(content json.RawMessage) (models.UIEntry, error) {
	var movies []models.BasicMovieInfo
	if err := json.Unmarshal(content, &movies); err != nil {
		return models.UIEntry{}, fmt.Errorf("decode showMovies content: %w", err)
	}

	items := make([]models.MovieCardItem, len(movies))
	for i, m := range movies {
		items[i] = models.MovieCardItem{LLMData: m}
	}
	return models.UIEntry{
		Kind:     models.UIEntryMovieCards,
		ToolName: ShowMoviesToolName,
		Movies:   items,
	}, nil
}

func (t *ShowMoviesTool) Hydrate(ctx context.Context, entry models.UIEntry) models.UIEntry {
	infos := make([]models.BasicMovieInfo, len(entry.Movies))
	for i, item := range entry.Movies {
		infos[i] = item.LLMData
	}
	entry.Movies = t.movies.Enrich(ctx, infos)
	return entry
}
