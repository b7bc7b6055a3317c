package models

import "time"

// Role is the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleFunction  Role = "function"
	RoleData      Role = "data"
	RoleTool      Role = "tool"
)

// Tool names the model may call. Function messages carry one of these in Name.
const (
	ToolShowMovies                   = "showMovies"
	ToolGenerateConversationStarters = "generateConversationStarters"
)

// Message is one immutable transcript entry.
// For RoleFunction, Name is the tool and Content the JSON tool output.
type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

// Transcript is the ordered message list backing one conversation.
type Transcript []Message

// Append returns a new transcript with msg added. The receiver is not modified,
// so a caller holding the previous state never observes the new entry.
func (t Transcript) Append(msgs ...Message) Transcript {
	out := make(Transcript, 0, len(t)+len(msgs))
	out = append(out, t...)
	return append(out, msgs...)
}

// ReplaceLast returns a new transcript whose final message is msg.
// On an empty transcript it behaves like Append.
func (t Transcript) ReplaceLast(msg Message) Transcript {
	if len(t) == 0 {
		return t.Append(msg)
	}
	return t[:len(t)-1].Append(msg)
}

// Last returns the final message, if any.
func (t Transcript) Last() (Message, bool) {
	if len(t) == 0 {
		return Message{}, false
	}
	return t[len(t)-1], true
}

// AIState is the conversation state threaded explicitly through a turn.
type AIState struct {
	ChatID   string     `json:"chatId"`
	Messages Transcript `json:"messages"`
}

// Chat is the persisted form of a conversation.
type Chat struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	UserID    string     `json:"userId"`
	CreatedAt time.Time  `json:"createdAt"`
	Path      string     `json:"path"`
	Messages  Transcript `json:"messages"`
	SharePath string     `json:"sharePath,omitempty"`
}

// ChatPath returns the client route of a chat.
func ChatPath(id string) string { return "/chat/" + id }

// SharePath returns the public route of a shared chat.
func SharePath(id string) string { return "/share/" + id }

// State returns the turn-processor view of the chat.
func (c *Chat) State() AIState {
	return AIState{ChatID: c.ID, Messages: c.Messages}
}

// ChatSummary is the list view of a chat (no messages).
type ChatSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	Path      string    `json:"path"`
	SharePath string    `json:"sharePath,omitempty"`
}

// Summary drops the transcript.
func (c *Chat) Summary() ChatSummary {
	return ChatSummary{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		Path:      c.Path,
		SharePath: c.SharePath,
	}
}
