package services

import (
	"context"

	"movierec/internal/domain/models"
)

// ChatService manages persisted conversations.
type ChatService interface {
	StateSink

	// Persist saves state as a chat when session is authenticated. Anonymous
	// sessions are a no-op. The title is fixed at first save.
	Persist(ctx context.Context, session *models.Session, state models.AIState) error

	// Get returns the session user's chat.
	Get(ctx context.Context, session *models.Session, chatID string) (*models.Chat, error)

	// LoadState returns the state to continue chatID from. Unknown chats and
	// anonymous sessions start empty.
	LoadState(ctx context.Context, session *models.Session, chatID string) (models.AIState, error)

	// List returns the user's chats, newest first.
	List(ctx context.Context, session *models.Session) ([]models.ChatSummary, error)

	// Delete removes one chat.
	Delete(ctx context.Context, session *models.Session, chatID string) error

	// Clear removes all of the user's chats.
	Clear(ctx context.Context, session *models.Session) error

	// Share marks the chat public and returns it with SharePath set.
	Share(ctx context.Context, session *models.Session, chatID string) (*models.Chat, error)

	// GetShared returns a chat that has been shared. No session required.
	GetShared(ctx context.Context, chatID string) (*models.Chat, error)
}

// RefineService turns a structured filter into a recommendation turn.
type RefineService interface {
	Refine(ctx context.Context, session *models.Session, state models.AIState, query models.RefineSearchQuery, display Display) (*TurnResult, error)
}
