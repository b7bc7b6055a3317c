package models

// UIEntryKind tags the variant held by a UIEntry.
type UIEntryKind string

const (
	UIEntryUserText             UIEntryKind = "user_text"
	UIEntryAssistantText        UIEntryKind = "assistant_text"
	UIEntryLoading              UIEntryKind = "loading"
	UIEntryMovieCards           UIEntryKind = "movie_cards"
	UIEntryConversationStarters UIEntryKind = "conversation_starters"
	// UIEntryUnsupported is a function message whose tool name is unknown.
	// It carries the name but no payload.
	UIEntryUnsupported UIEntryKind = "unsupported"
)

// UIEntry is one renderable fragment of a conversation. Only the fields of
// the variant named by Kind are set.
type UIEntry struct {
	ID   string      `json:"id"`
	Kind UIEntryKind `json:"kind"`

	// user_text, assistant_text
	Text string `json:"text,omitempty"`

	// loading, movie_cards, conversation_starters, unsupported
	ToolName string `json:"tool_name,omitempty"`

	// movie_cards
	Introduction string          `json:"introduction,omitempty"`
	Movies       []MovieCardItem `json:"movies,omitempty"`

	// conversation_starters
	Starters []ConversationStarter `json:"starters,omitempty"`
}

// IsTool reports whether the entry was produced from a function message.
func (e UIEntry) IsTool() bool {
	switch e.Kind {
	case UIEntryMovieCards, UIEntryConversationStarters, UIEntryUnsupported:
		return true
	}
	return false
}
