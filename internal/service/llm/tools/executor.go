package tools

import (
	"context"
	"encoding/json"

	"github.com/tmc/langchaingo/llms"

	"movierec/internal/domain/models"
)

// Invocation is a decoded, validated tool call.
type Invocation struct {
	// Content is the JSON persisted as the function message content.
	Content json.RawMessage
	// Introduction is shown above the rendered output but not persisted.
	Introduction string
}

// ToolExecutor defines one tool the model may call.
// Implementations must be thread-safe and respect context cancellation.
type ToolExecutor interface {
	// Definition is the schema advertised to the model.
	Definition() llms.Tool

	// Decode parses and validates the model's raw arguments. Validation
	// failures wrap domain.ErrValidation.
	Decode(arguments string) (*Invocation, error)

	// Project turns persisted content into a UI entry without any I/O.
	Project(content json.RawMessage) (models.UIEntry, error)

	// Hydrate resolves the external data a projected entry displays
	// (movie metadata, images).
	Hydrate(ctx context.Context, entry models.UIEntry) models.UIEntry
}
