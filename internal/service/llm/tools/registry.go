package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tmc/langchaingo/llms"

	"movierec/internal/domain"
	"movierec/internal/domain/models"
)

// ToolCall is a persisted function message to render.
type ToolCall struct {
	ID           string          `json:"id"`   // UI entry id
	Name         string          `json:"name"` // tool name
	Content      json.RawMessage `json:"content"`
	Introduction string          `json:"introduction,omitempty"`
}

// ToolResult is the rendered form of a ToolCall.
type ToolResult struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Entry   models.UIEntry `json:"entry"`
	Error   error          `json:"error"`
	IsError bool           `json:"is_error"`
}

// ToolRegistry manages tool executors and handles tool execution.
// It is thread-safe and can be used concurrently.
type ToolRegistry struct {
	mu        sync.RWMutex
	executors map[string]ToolExecutor
	order     []string
}

// NewToolRegistry creates a new tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		executors: make(map[string]ToolExecutor),
	}
}

// Register adds a tool executor to the registry.
// If a tool with the same name already exists, it will be replaced.
func (r *ToolRegistry) Register(name string, executor ToolExecutor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.executors[name]; !ok {
		r.order = append(r.order, name)
	}
	r.executors[name] = executor
}

// Get retrieves a tool executor by name.
// Returns nil if the tool is not registered.
func (r *ToolRegistry) Get(name string) ToolExecutor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.executors[name]
}

// Definitions returns the tool schemas in registration order.
func (r *ToolRegistry) Definitions() []llms.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]llms.Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.executors[name].Definition())
	}
	return defs
}

// Decode validates a model tool call. Unknown tools are validation errors.
func (r *ToolRegistry) Decode(name, arguments string) (*Invocation, error) {
	executor := r.Get(name)
	if executor == nil {
		return nil, fmt.Errorf("%w: unknown tool %q", domain.ErrValidation, name)
	}
	return executor.Decode(arguments)
}

// Project renders persisted content without I/O. Unknown tools project to
// an unsupported entry that keeps the name.
func (r *ToolRegistry) Project(id, name string, content json.RawMessage) (models.UIEntry, error) {
	executor := r.Get(name)
	if executor == nil {
		return models.UIEntry{ID: id, Kind: models.UIEntryUnsupported, ToolName: name}, nil
	}
	entry, err := executor.Project(content)
	if err != nil {
		return models.UIEntry{ID: id, Kind: models.UIEntryUnsupported, ToolName: name}, err
	}
	entry.ID = id
	return entry, nil
}

// Execute projects and hydrates a single call.
func (r *ToolRegistry) Execute(ctx context.Context, call ToolCall) ToolResult {
	executor := r.Get(call.Name)
	if executor == nil {
		return ToolResult{
			ID:      call.ID,
			Name:    call.Name,
			Entry:   models.UIEntry{ID: call.ID, Kind: models.UIEntryUnsupported, ToolName: call.Name},
			Error:   fmt.Errorf("tool not found: %s", call.Name),
			IsError: true,
		}
	}

	entry, err := r.Project(call.ID, call.Name, call.Content)
	if err != nil {
		return ToolResult{
			ID:      call.ID,
			Name:    call.Name,
			Entry:   entry,
			Error:   err,
			IsError: true,
		}
	}
	entry.Introduction = call.Introduction

	entry = executor.Hydrate(ctx, entry)
	entry.ID = call.ID

	return ToolResult{
		ID:    call.ID,
		Name:  call.Name,
		Entry: entry,
	}
}

// ExecuteParallel runs multiple calls concurrently and returns results in the same order.
// Context cancellation will stop all ongoing executions.
func (r *ToolRegistry) ExecuteParallel(ctx context.Context, calls []ToolCall) []ToolResult {
	if len(calls) == 0 {
		return []ToolResult{}
	}

	results := make([]ToolResult, len(calls))
	var wg sync.WaitGroup

	for i, call := range calls {
		wg.Add(1)
		go func(index int, toolCall ToolCall) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[index] = ToolResult{
					ID:      toolCall.ID,
					Name:    toolCall.Name,
					Error:   ctx.Err(),
					IsError: true,
				}
				return
			default:
			}

			results[index] = r.Execute(ctx, toolCall)
		}(i, call)
	}

	wg.Wait()

	return results
}
