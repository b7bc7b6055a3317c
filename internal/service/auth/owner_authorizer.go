package auth

import (
	"context"
	"fmt"

	"movierec/internal/domain"
	"movierec/internal/domain/repositories"
)

// OwnerBasedAuthorizer implements ChatAuthorizer using ownership checks.
// A user can access a chat if they created it.
type OwnerBasedAuthorizer struct {
	chatRepo repositories.ChatRepository
}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer(chatRepo repositories.ChatRepository) *OwnerBasedAuthorizer {
	return &OwnerBasedAuthorizer{chatRepo: chatRepo}
}

// CanAccessChat checks if user owns the chat
func (a *OwnerBasedAuthorizer) CanAccessChat(ctx context.Context, userID, chatID string) error {
	chat, err := a.chatRepo.Get(ctx, chatID)
	if err != nil {
		return fmt.Errorf("get chat for auth: %w", err)
	}
	if chat.UserID != userID {
		return fmt.Errorf("access denied to chat %s: %w", chatID, domain.ErrForbidden)
	}
	return nil
}
