package services

import (
	"context"

	"movierec/internal/domain/models"
)

// StarterService provides the conversation starters shown on an empty chat.
type StarterService interface {
	Defaults(ctx context.Context) []models.ConversationStarter
}
