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

// ConversationStartersToolName is the tool the model calls to suggest topics.
const ConversationStartersToolName = models.ToolGenerateConversationStarters

// ConversationStartersTool renders suggested follow-up topics.
type ConversationStartersTool struct {
	movies services.MovieService
	config *ToolConfig
}

// NewConversationStartersTool creates the generateConversationStarters tool.
func NewConversationStartersTool(movies services.MovieService, config *ToolConfig) *ConversationStartersTool {
	if config == nil {
		config = DefaultToolConfig()
	}
	return &ConversationStartersTool{movies: movies, config: config}
}

type startersArgs struct {
	Cards []models.ConversationStarter `json:"cards"`
}

func (t *ConversationStartersTool) Definition() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        ConversationStartersToolName,
			Description: "Based on the user watching history, recommend some conversation starters: themes, actors, directors, countries, ...",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"cards": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"heading": map[string]any{
									"type":        "string",
									"description": "Heading of the conversation starter. For example: Comedies for the whole family.",
								},
								"subheading": map[string]any{
									"type":        "string",
									"description": "Short explanation why this topic is recommended to the user. For example: Because you watched Toy Story, Shrek and Ace Ventura.",
								},
								"prompt": map[string]any{
									"type":        "string",
									"description": "A prompt to act as a search in this theme. For example: Recommend me some comedies for the whole family like Toy Story, Shrek and Ace Ventura.",
								},
								"image": map[string]any{
									"type": "object",
									"properties": map[string]any{
										"type":  map[string]any{"type": "string", "enum": []string{models.StarterImageMovie, models.StarterImagePerson}},
										"query": map[string]any{"type": "string", "description": "The title of the movie or actor."},
									},
									"required": []string{"type", "query"},
								},
							},
							"required": []string{"heading", "subheading", "prompt", "image"},
						},
					},
				},
				"required": []string{"cards"},
			},
		},
	}
}

func (t *ConversationStartersTool) Decode(arguments string) (*Invocation, error) {
	var args startersArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return nil, fmt.Errorf("%w: generateConversationStarters arguments: %v", domain.ErrValidation, err)
	}

	err := validation.ValidateStruct(&args,
		validation.Field(&args.Cards,
			validation.Required,
			validation.Length(1, t.config.MaxStarters),
			validation.Each(validation.By(validateStarter)),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: generateConversationStarters arguments: %v", domain.ErrValidation, err)
	}

	// URLs are resolved server-side, never taken from the model
	for i := range args.Cards {
		args.Cards[i].Image.URL = ""
	}

	content, err := json.Marshal(args.Cards)
	if err != nil {
		return nil, fmt.Errorf("encode cards: %w", err)
	}
	return &Invocation{Content: content}, nil
}

func validateStarter(value interface{}) error {
	s, ok := value.(models.ConversationStarter)
	if !ok {
		return fmt.Errorf("invalid conversation starter type")
	}
	return validation.ValidateStruct(&s,
		validation.Field(&s.Heading, validation.Required),
		validation.Field(&s.Subheading, validation.Required),
		validation.Field(&s.Prompt, validation.Required),
		validation.Field(&s.Image, validation.By(func(value interface{}) error {
			img := value.(models.StarterImage)
			return validation.ValidateStruct(&img,
				validation.Field(&img.Type, validation.Required, validation.In(models.StarterImageMovie, models.StarterImagePerson)),
				validation.Field(&img.Query, validation.Required),
			)
		})),
	)
}

func (t *ConversationStartersTool) Project(content json.RawMessage) (models.UIEntry, error) {
	var cards []models.ConversationStarter
	if err := json.Unmarshal(content, &cards); err != nil {
		return models.UIEntry{}, fmt.Errorf("decode conversation starters content: %w", err)
	}
	return models.UIEntry{
		Kind:     models.UIEntryConversationStarters,
		ToolName: ConversationStartersToolName,
		Starters: cards,
	}, nil
}

func (t *ConversationStartersTool) Hydrate(ctx context.Context, entry models.UIEntry) models.UIEntry {
	entry.Starters = t.movies.ResolveStarterImages(ctx, entry.Starters)
	return entry
}
