// Package projection turns a stored transcript into the list of UI entries a
// client renders, without calling the model again.
package projection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"movierec/internal/domain/models"
	"movierec/internal/service/llm/tools"
)

// Projector renders chats through the tool registry.
type Projector struct {
	registry *tools.ToolRegistry
	logger   *slog.Logger
}

// NewProjector creates a projector.
func NewProjector(registry *tools.ToolRegistry, logger *slog.Logger) *Projector {
	return &Projector{registry: registry, logger: logger}
}

// EntryID is the id of the index-th visible entry of a chat.
func EntryID(chatID string, index int) string {
	return fmt.Sprintf("%s-%d", chatID, index)
}

// Project maps messages to entries. System messages are dropped; indexes
// count only the remaining messages. No I/O is performed, so movie cards
// carry a nil Movie and starters no image URL.
func (p *Projector) Project(chat *models.Chat) []models.UIEntry {
	entries := make([]models.UIEntry, 0, len(chat.Messages))
	for _, msg := range chat.Messages {
		if msg.Role == models.RoleSystem {
			continue
		}
		id := EntryID(chat.ID, len(entries))

		switch msg.Role {
		case models.RoleFunction:
			entry, err := p.registry.Project(id, msg.Name, json.RawMessage(msg.Content))
			if err != nil {
				p.logger.Warn("undecodable function message", "chat_id", chat.ID, "message_id", msg.ID, "tool", msg.Name, "error", err)
			}
			entries = append(entries, entry)
		case models.RoleUser:
			entries = append(entries, models.UIEntry{ID: id, Kind: models.UIEntryUserText, Text: msg.Content})
		default:
			entries = append(entries, models.UIEntry{ID: id, Kind: models.UIEntryAssistantText, Text: msg.Content})
		}
	}
	return entries
}

// Render projects the chat and hydrates every tool entry concurrently.
// Entries whose hydration fails keep their projected form.
func (p *Projector) Render(ctx context.Context, chat *models.Chat) []models.UIEntry {
	entries := p.Project(chat)

	var calls []tools.ToolCall
	var positions []int
	visible := 0
	for _, msg := range chat.Messages {
		if msg.Role == models.RoleSystem {
			continue
		}
		if msg.Role == models.RoleFunction && p.registry.Get(msg.Name) != nil && entries[visible].Kind != models.UIEntryUnsupported {
			calls = append(calls, tools.ToolCall{
				ID:      entries[visible].ID,
				Name:    msg.Name,
				Content: json.RawMessage(msg.Content),
			})
			positions = append(positions, visible)
		}
		visible++
	}

	for i, res := range p.registry.ExecuteParallel(ctx, calls) {
		if res.IsError {
			p.logger.Warn("tool entry hydration failed", "chat_id", chat.ID, "entry_id", res.ID, "error", res.Error)
			continue
		}
		entries[positions[i]] = res.Entry
	}
	return entries
}
