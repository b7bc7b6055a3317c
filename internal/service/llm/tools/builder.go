package tools

import "movierec/internal/domain/services"

// ToolRegistryBuilder provides a fluent API for building tool registries.
type ToolRegistryBuilder struct {
	registry *ToolRegistry
	config   *ToolConfig
}

// NewToolRegistryBuilder creates a new builder with a fresh registry.
func NewToolRegistryBuilder() *ToolRegistryBuilder {
	return &ToolRegistryBuilder{
		registry: NewToolRegistry(),
		config:   DefaultToolConfig(),
	}
}

// WithConfig sets custom tool configuration.
// If not called, defaults will be used.
func (b *ToolRegistryBuilder) WithConfig(config *ToolConfig) *ToolRegistryBuilder {
	if config != nil {
		b.config = config
	}
	return b
}

// WithMovieTools registers showMovies and generateConversationStarters.
func (b *ToolRegistryBuilder) WithMovieTools(movies services.MovieService) *ToolRegistryBuilder {
	b.registry.Register(ShowMoviesToolName, NewShowMoviesTool(movies, b.config))
	b.registry.Register(ConversationStartersToolName, NewConversationStartersTool(movies, b.config))
	return b
}

// Build returns the constructed tool registry.
func (b *ToolRegistryBuilder) Build() *ToolRegistry {
	return b.registry
}
