// Package provider builds the chat model the turn processor talks to and
// converts transcripts into provider messages.
package provider

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"movierec/internal/config"
)

// LoremPrefix selects the offline mock model (e.g. "lorem-fast").
const LoremPrefix = "lorem-"

// Provider names, matching the capability registry.
const (
	OpenAIProvider = "openai"
	LoremProvider  = "lorem"
)

// ProviderName returns the provider that serves model.
func ProviderName(model string) string {
	if strings.HasPrefix(model, LoremPrefix) {
		return LoremProvider
	}
	return OpenAIProvider
}

// NewModel returns the model configured by cfg.DefaultModel.
//
// Supported models:
//   - "lorem-*" - offline mock, no API key required
//   - anything else - OpenAI-compatible chat completions (OPENAI_API_KEY)
func NewModel(cfg *config.Config, logger *slog.Logger) (llms.Model, error) {
	if ProviderName(cfg.DefaultModel) == LoremProvider {
		logger.Warn("using lorem mock model", "model", cfg.DefaultModel)
		return NewLoremModel(cfg.DefaultModel), nil
	}
	return newOpenAIModel(cfg)
}

func newOpenAIModel(cfg *config.Config) (llms.Model, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	opts := []openai.Option{
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithModel(cfg.DefaultModel),
	}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI model: %w", err)
	}
	return model, nil
}
