package repositories

import (
	"context"

	"movierec/internal/domain/models"
)

// ChatRepository persists chats and their per-user index.
type ChatRepository interface {
	// Save writes the full chat record and indexes it under its user.
	// Concurrent saves of the same chat are last-write-wins.
	Save(ctx context.Context, chat *models.Chat) error

	// Get returns the chat with id, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*models.Chat, error)

	// ListByUser returns the user's chats, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Chat, error)

	// Delete removes a chat and its index entry.
	Delete(ctx context.Context, id, userID string) error

	// DeleteAllByUser removes every chat of the user.
	DeleteAllByUser(ctx context.Context, userID string) error
}
