package tools

import "movierec/internal/config"

// ToolConfig centralizes limits applied to tool arguments.
type ToolConfig struct {
	MaxMovies   int // movies accepted in one showMovies call
	MaxStarters int // cards accepted in one generateConversationStarters call
}

// DefaultToolConfig returns the default tool configuration.
func DefaultToolConfig() *ToolConfig {
	return &ToolConfig{
		MaxMovies:   config.MaxMoviesPerCard,
		MaxStarters: 2 * config.ConversationStarterCount,
	}
}
