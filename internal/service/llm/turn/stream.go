package turn

import (
	"context"
	"encoding/json"
	"strings"

	"movierec/internal/domain/services"
)

// textStream forwards streamed text to the display and keeps the full text.
// Providers also stream tool-call argument fragments through the same
// callback as JSON arrays of calls; those are dropped.
type textStream struct {
	display  services.Display
	text     strings.Builder
	toolCall bool
}

func (s *textStream) write(_ context.Context, chunk []byte) error {
	if s.toolCall || isToolCallChunk(chunk) {
		s.toolCall = true
		return nil
	}
	if len(chunk) == 0 {
		return nil
	}
	s.text.Write(chunk)
	s.display.Delta(string(chunk))
	return nil
}

type toolCallChunk struct {
	ID       string          `json:"id"`
	Function json.RawMessage `json:"function"`
}

func isToolCallChunk(chunk []byte) bool {
	if len(chunk) == 0 || chunk[0] != '[' {
		return false
	}
	var calls []toolCallChunk
	if err := json.Unmarshal(chunk, &calls); err != nil || len(calls) == 0 {
		return false
	}
	return calls[0].Function != nil
}
