package services

import "context"

// ChatAuthorizer checks if a user can access a chat.
// Current implementation: ownership-based (user created the chat).
type ChatAuthorizer interface {
	// CanAccessChat returns domain.ErrForbidden when the chat exists and
	// belongs to someone else, and domain.ErrNotFound when it does not exist.
	CanAccessChat(ctx context.Context, userID, chatID string) error
}
