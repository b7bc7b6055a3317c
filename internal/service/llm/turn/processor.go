// Package turn runs one conversational turn: it appends the user message,
// calls the model with the movie tools and turns the response into either an
// assistant message or a committed tool output.
package turn

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
	"github.com/tmc/langchaingo/llms"

	"movierec/internal/config"
	"movierec/internal/domain"
	"movierec/internal/domain/models"
	"movierec/internal/domain/repositories"
	"movierec/internal/domain/services"
	"movierec/internal/service/llm/provider"
	"movierec/internal/service/llm/tools"
)

// Options tunes model calls.
type Options struct {
	Provider    string // for error reporting
	Temperature float64
}

// Processor implements services.TurnProcessor
type Processor struct {
	model    llms.Model
	registry *tools.ToolRegistry
	history  repositories.HistoryRepository
	sink     services.StateSink
	options  Options
	logger   *slog.Logger
}

// NewProcessor creates a turn processor. sink may be nil, in which case
// committed states are only returned to the caller.
func NewProcessor(
	model llms.Model,
	registry *tools.ToolRegistry,
	history repositories.HistoryRepository,
	sink services.StateSink,
	options Options,
	logger *slog.Logger,
) *Processor {
	if options.Provider == "" {
		options.Provider = "openai"
	}
	return &Processor{
		model:    model,
		registry: registry,
		history:  history,
		sink:     sink,
		options:  options,
		logger:   logger,
	}
}

// SubmitUserMessage runs one turn.
//
// On a text response exactly one assistant message is appended. On a tool
// call exactly one function message is appended and committed before its
// output is enriched; any text streamed before the call is kept as an
// assistant message ahead of it. On any error the returned state is nil and nothing is
// committed.
func (p *Processor) SubmitUserMessage(
	ctx context.Context,
	session *models.Session,
	state models.AIState,
	content string,
	forceCards bool,
	display services.Display,
) (*services.TurnResult, error) {
	err := validation.Validate(content,
		validation.Required,
		validation.RuneLength(1, config.MaxMessageLength),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: content: %v", domain.ErrValidation, err)
	}

	if state.ChatID == "" {
		state.ChatID = shortuuid.New()
	}
	logger := p.logger.With("chat_id", state.ChatID)

	if forceCards {
		content += ForceCardsSuffix
	}
	state.Messages = state.Messages.Append(models.Message{
		ID:      newMessageID(),
		Role:    models.RoleUser,
		Content: content,
	})

	messages := provider.BuildMessages(SystemPrompt(p.userHistory(ctx, session, logger)), state.Messages)

	stream := &textStream{display: display}
	resp, err := p.model.GenerateContent(ctx, messages,
		llms.WithTools(p.registry.Definitions()),
		llms.WithTemperature(p.options.Temperature),
		llms.WithStreamingFunc(stream.write),
	)
	if err != nil {
		logger.Error("model call failed", "error", err)
		return nil, &domain.UpstreamError{Provider: p.options.Provider, Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &domain.UpstreamError{Provider: p.options.Provider, Err: fmt.Errorf("empty response")}
	}
	choice := resp.Choices[0]

	if call := firstToolCall(choice); call != nil {
		// text streamed ahead of the call was already shown; keep it in the transcript
		if prelude := strings.TrimSpace(stream.text.String()); prelude != "" {
			state.Messages = state.Messages.Append(models.Message{
				ID:      newMessageID(),
				Role:    models.RoleAssistant,
				Content: prelude,
			})
		}
		return p.handleToolCall(ctx, session, state, call, display, logger)
	}

	text := choice.Content
	if text == "" {
		text = stream.text.String()
	}
	msg := models.Message{ID: newMessageID(), Role: models.RoleAssistant, Content: text}
	state.Messages = state.Messages.Append(msg)

	entry := models.UIEntry{ID: msg.ID, Kind: models.UIEntryAssistantText, Text: text}
	display.Done(entry)
	p.commit(ctx, session, state, logger)

	return &services.TurnResult{ID: msg.ID, State: state, Entry: entry}, nil
}

func (p *Processor) handleToolCall(
	ctx context.Context,
	session *models.Session,
	state models.AIState,
	call *llms.FunctionCall,
	display services.Display,
	logger *slog.Logger,
) (*services.TurnResult, error) {
	logger = logger.With("tool", call.Name)

	inv, err := p.registry.Decode(call.Name, call.Arguments)
	if err != nil {
		logger.Warn("rejected tool call", "error", err)
		return nil, err
	}

	msg := models.Message{
		ID:      newMessageID(),
		Role:    models.RoleFunction,
		Name:    call.Name,
		Content: string(inv.Content),
	}
	display.Update(models.UIEntry{ID: msg.ID, Kind: models.UIEntryLoading, ToolName: call.Name})

	state.Messages = state.Messages.Append(msg)
	p.commit(ctx, session, state, logger)

	result := p.registry.Execute(ctx, tools.ToolCall{
		ID:           msg.ID,
		Name:         msg.Name,
		Content:      inv.Content,
		Introduction: inv.Introduction,
	})
	if result.IsError {
		logger.Error("tool rendering failed", "error", result.Error)
	}
	display.Done(result.Entry)

	return &services.TurnResult{ID: msg.ID, State: state, Entry: result.Entry}, nil
}

func (p *Processor) userHistory(ctx context.Context, session *models.Session, logger *slog.Logger) string {
	if !session.Authenticated() || p.history == nil {
		return ""
	}
	h, err := p.history.Get(ctx, session.User.Email)
	if err != nil {
		logger.Warn("failed to load watch history", "user_id", session.User.ID, "error", err)
		return ""
	}
	return h
}

func (p *Processor) commit(ctx context.Context, session *models.Session, state models.AIState, logger *slog.Logger) {
	if p.sink == nil {
		return
	}
	if err := p.sink.Commit(ctx, session, state); err != nil {
		logger.Error("failed to persist chat", "error", err)
	}
}

// firstToolCall returns the first function call of a choice; later calls are
// ignored.
func firstToolCall(choice *llms.ContentChoice) *llms.FunctionCall {
	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall != nil {
			return tc.FunctionCall
		}
	}
	return choice.FuncCall
}

func newMessageID() string {
	return uuid.NewString()
}
