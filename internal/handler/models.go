package handler

import (
	"log/slog"
	"net/http"

	"movierec/internal/capabilities"
	"movierec/internal/config"
	"movierec/internal/httputil"
	"movierec/internal/service/llm/provider"
)

// ModelsHandler handles HTTP requests for model capabilities
type ModelsHandler struct {
	config   *config.Config
	logger   *slog.Logger
	registry *capabilities.Registry
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(cfg *config.Config, logger *slog.Logger, registry *capabilities.Registry) *ModelsHandler {
	return &ModelsHandler{
		config:   cfg,
		logger:   logger,
		registry: registry,
	}
}

// ProviderResponse represents a provider with its models
type ProviderResponse struct {
	ID     string                           `json:"id"`
	Models []capabilities.ModelCapabilities `json:"models"`
}

// CapabilitiesResponse lists usable providers and the model turns run on
type CapabilitiesResponse struct {
	ActiveModel string             `json:"active_model"`
	Providers   []ProviderResponse `json:"providers"`
}

// GetCapabilities returns model capabilities for all configured providers
// GET /api/models/capabilities
func (h *ModelsHandler) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	providers := []ProviderResponse{}

	for _, id := range h.registry.GetAllProviders() {
		if !h.providerConfigured(id) {
			continue
		}
		models, err := h.registry.ListProviderModels(id)
		if err != nil {
			h.logger.Warn("provider listed but not loadable", "provider", id, "error", err)
			continue
		}
		providers = append(providers, ProviderResponse{ID: id, Models: models})
	}

	httputil.RespondJSON(w, http.StatusOK, CapabilitiesResponse{
		ActiveModel: h.config.DefaultModel,
		Providers:   providers,
	})
}

// providerConfigured reports whether turns could run on the provider.
func (h *ModelsHandler) providerConfigured(id string) bool {
	switch id {
	case provider.OpenAIProvider:
		return h.config.OpenAIAPIKey != ""
	case provider.LoremProvider:
		return h.config.Debug
	default:
		return false
	}
}
