package services

import (
	"context"

	"movierec/internal/domain/models"
)

// Display receives the progressive rendering of one turn. Implementations
// must tolerate calls after the client went away.
type Display interface {
	// Update replaces the in-flight fragment (loading placeholder, partial text).
	Update(entry models.UIEntry)

	// Delta appends streamed text to the in-flight assistant_text fragment.
	Delta(text string)

	// Done delivers the final fragment. Called at most once.
	Done(entry models.UIEntry)
}

// TurnResult is what a completed turn hands back to the caller.
type TurnResult struct {
	ID    string         `json:"id"`
	State models.AIState `json:"state"`
	Entry models.UIEntry `json:"entry"`
}

// TurnProcessor runs one user turn against the LLM.
type TurnProcessor interface {
	// SubmitUserMessage appends content as a user message, calls the model and
	// returns the new state. When forceCards is set the content is suffixed
	// with an instruction to answer with movie cards.
	SubmitUserMessage(ctx context.Context, session *models.Session, state models.AIState, content string, forceCards bool, display Display) (*TurnResult, error)
}

// StateSink persists a state the turn processor has committed.
type StateSink interface {
	Commit(ctx context.Context, session *models.Session, state models.AIState) error
}
