package provider

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"movierec/internal/domain/models"
)

// ToolCallID derives the provider tool-call id of a persisted function message.
func ToolCallID(msg models.Message) string {
	return "call_" + msg.ID
}

// BuildMessages converts a transcript into provider messages, preceded by
// systemPrompt.
//
// Function messages are replayed as an assistant tool call followed by the
// matching tool response, since chat-completions APIs reject a tool result
// without the call that produced it. Data messages are never sent.
func BuildMessages(systemPrompt string, transcript models.Transcript) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(transcript)+1)
	out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))

	for _, msg := range transcript {
		switch msg.Role {
		case models.RoleUser:
			out = append(out, llms.TextParts(llms.ChatMessageTypeHuman, msg.Content))
		case models.RoleAssistant:
			out = append(out, llms.TextParts(llms.ChatMessageTypeAI, msg.Content))
		case models.RoleSystem:
			out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, msg.Content))
		case models.RoleFunction, models.RoleTool:
			if msg.Name == "" {
				continue
			}
			out = append(out, replayToolCall(msg)...)
		}
	}
	return out
}

func replayToolCall(msg models.Message) []llms.MessageContent {
	id := ToolCallID(msg)
	return []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeAI,
			Parts: []llms.ContentPart{llms.ToolCall{
				ID:   id,
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      msg.Name,
					Arguments: replayArguments(msg),
				},
			}},
		},
		{
			Role: llms.ChatMessageTypeTool,
			Parts: []llms.ContentPart{llms.ToolCallResponse{
				ToolCallID: id,
				Name:       msg.Name,
				Content:    msg.Content,
			}},
		},
	}
}

// replayArguments rebuilds the argument object from the persisted array.
// The introduction is not persisted and is omitted.
func replayArguments(msg models.Message) string {
	content := msg.Content
	if content == "" {
		content = "[]"
	}
	switch msg.Name {
	case models.ToolShowMovies:
		return fmt.Sprintf(`{"movies":%s}`, content)
	case models.ToolGenerateConversationStarters:
		return fmt.Sprintf(`{"cards":%s}`, content)
	default:
		return "{}"
	}
}
