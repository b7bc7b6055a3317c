package provider

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	loremgen "github.com/bozaro/golorem"
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"

	"movierec/internal/domain/models"
)

// LoremModel is a mock chat model that streams lorem ipsum text.
// Used for development without requiring real API keys.
//
// When the last user message asks for movie cards and showMovies is offered,
// it answers with a showMovies tool call over a fixed set of titles instead.
type LoremModel struct {
	model     string
	mu        sync.Mutex
	generator *loremgen.Lorem
}

var _ llms.Model = (*LoremModel)(nil)

// NewLoremModel creates a lorem model. The name controls the stream speed:
// lorem-slow, lorem-fast, anything else medium.
func NewLoremModel(model string) *LoremModel {
	return &LoremModel{model: model, generator: loremgen.New()}
}

func (m *LoremModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func (m *LoremModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	if wantsCards(messages) && offersTool(opts.Tools, models.ToolShowMovies) {
		return m.showMovies(), nil
	}

	text := m.sentences(3)
	if opts.StreamingFunc != nil {
		delay := streamDelay(m.model)
		for i, word := range strings.Fields(text) {
			chunk := word
			if i > 0 {
				chunk = " " + word
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			if err := opts.StreamingFunc(ctx, []byte(chunk)); err != nil {
				return nil, err
			}
		}
	}

	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: text, StopReason: "stop"}}}, nil
}

func (m *LoremModel) sentences(n int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	parts := make([]string, n)
	for i := range parts {
		parts[i] = m.generator.Sentence(5, 15)
	}
	return strings.Join(parts, " ")
}

func (m *LoremModel) showMovies() *llms.ContentResponse {
	movies := []models.BasicMovieInfo{
		{Title: "Die Hard", Year: "1988", Synopsis: m.sentences(1), Themes: []models.Theme{{Theme: "Action", Amount: 0.7}, {Theme: "Humor", Amount: 0.3}}},
		{Title: "Inception", Year: "2010", Synopsis: m.sentences(1), ReasonsToLike: []string{m.sentences(1)}},
		{Title: "Blade Runner", Year: "1982", Synopsis: m.sentences(1)},
	}
	args, _ := json.Marshal(map[string]any{
		"introduction": m.sentences(1),
		"movies":       movies,
	})

	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		StopReason: "tool_calls",
		ToolCalls: []llms.ToolCall{{
			ID:           "call_" + uuid.NewString(),
			Type:         "function",
			FunctionCall: &llms.FunctionCall{Name: models.ToolShowMovies, Arguments: string(args)},
		}},
	}}}
}

func wantsCards(messages []llms.MessageContent) bool {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != llms.ChatMessageTypeHuman {
			continue
		}
		for _, p := range messages[i].Parts {
			if t, ok := p.(llms.TextContent); ok && strings.Contains(strings.ToLower(t.Text), "movie cards") {
				return true
			}
		}
		return false
	}
	return false
}

func offersTool(tools []llms.Tool, name string) bool {
	for _, t := range tools {
		if t.Function != nil && t.Function.Name == name {
			return true
		}
	}
	return false
}

func streamDelay(model string) time.Duration {
	if strings.Contains(model, "slow") {
		return 500 * time.Millisecond
	}
	if strings.Contains(model, "fast") {
		return 33 * time.Millisecond
	}
	return 100 * time.Millisecond
}
