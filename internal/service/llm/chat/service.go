// Package chat persists conversations and exposes them to their owners.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"movierec/internal/config"
	"movierec/internal/domain"
	"movierec/internal/domain/models"
	"movierec/internal/domain/repositories"
	"movierec/internal/domain/services"
)

// Service implements the ChatService interface
type Service struct {
	chatRepo   repositories.ChatRepository
	authorizer services.ChatAuthorizer
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new chat service
func NewService(
	chatRepo repositories.ChatRepository,
	authorizer services.ChatAuthorizer,
	logger *slog.Logger,
) *Service {
	return &Service{
		chatRepo:   chatRepo,
		authorizer: authorizer,
		logger:     logger,
		now:        time.Now,
	}
}

// Commit implements services.StateSink.
func (s *Service) Commit(ctx context.Context, session *models.Session, state models.AIState) error {
	return s.Persist(ctx, session, state)
}

// Persist saves the state for an authenticated session. The first save
// creates the chat and fixes its title; later saves only replace messages.
func (s *Service) Persist(ctx context.Context, session *models.Session, state models.AIState) error {
	if !session.Authenticated() {
		return nil
	}
	if err := validation.Validate(state.ChatID, validation.Required); err != nil {
		return fmt.Errorf("%w: chat id: %v", domain.ErrValidation, err)
	}

	chat, err := s.chatRepo.Get(ctx, state.ChatID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		chat = &models.Chat{
			ID:        state.ChatID,
			Title:     chatTitle(state.Messages),
			UserID:    session.User.ID,
			CreatedAt: s.now(),
			Path:      models.ChatPath(state.ChatID),
		}
		s.logger.Info("chat created", "id", chat.ID, "title", chat.Title, "user_id", chat.UserID)
	case err != nil:
		return err
	case chat.UserID != session.User.ID:
		return fmt.Errorf("access denied to chat %s: %w", state.ChatID, domain.ErrForbidden)
	}

	chat.Messages = state.Messages
	return s.chatRepo.Save(ctx, chat)
}

// chatTitle is the first MaxChatTitleLength runes of the first message.
func chatTitle(messages models.Transcript) string {
	if len(messages) == 0 {
		return ""
	}
	r := []rune(messages[0].Content)
	if len(r) > config.MaxChatTitleLength {
		r = r[:config.MaxChatTitleLength]
	}
	return string(r)
}

// Get retrieves a chat owned by the session user
func (s *Service) Get(ctx context.Context, session *models.Session, chatID string) (*models.Chat, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	if err := s.authorizer.CanAccessChat(ctx, session.User.ID, chatID); err != nil {
		return nil, err
	}
	return s.chatRepo.Get(ctx, chatID)
}

// LoadState returns the state a new turn continues from
func (s *Service) LoadState(ctx context.Context, session *models.Session, chatID string) (models.AIState, error) {
	empty := models.AIState{ChatID: chatID}
	if !session.Authenticated() {
		return empty, nil
	}

	chat, err := s.Get(ctx, session, chatID)
	if errors.Is(err, domain.ErrNotFound) {
		return empty, nil
	}
	if err != nil {
		return models.AIState{}, err
	}
	return chat.State(), nil
}

// List retrieves the user's chats, newest first
func (s *Service) List(ctx context.Context, session *models.Session) ([]models.ChatSummary, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	chats, err := s.chatRepo.ListByUser(ctx, session.User.ID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ChatSummary, len(chats))
	for i := range chats {
		summaries[i] = chats[i].Summary()
	}
	return summaries, nil
}

// Delete removes a chat
func (s *Service) Delete(ctx context.Context, session *models.Session, chatID string) error {
	if err := requireSession(session); err != nil {
		return err
	}
	if err := s.authorizer.CanAccessChat(ctx, session.User.ID, chatID); err != nil {
		return err
	}
	if err := s.chatRepo.Delete(ctx, chatID, session.User.ID); err != nil {
		return err
	}

	s.logger.Info("chat deleted", "id", chatID, "user_id", session.User.ID)
	return nil
}

// Clear removes all of the user's chats
func (s *Service) Clear(ctx context.Context, session *models.Session) error {
	if err := requireSession(session); err != nil {
		return err
	}
	if err := s.chatRepo.DeleteAllByUser(ctx, session.User.ID); err != nil {
		return err
	}

	s.logger.Info("chats cleared", "user_id", session.User.ID)
	return nil
}

// Share makes a chat readable through its share path
func (s *Service) Share(ctx context.Context, session *models.Session, chatID string) (*models.Chat, error) {
	chat, err := s.Get(ctx, session, chatID)
	if err != nil {
		return nil, err
	}
	if chat.SharePath != "" {
		return chat, nil
	}

	chat.SharePath = models.SharePath(chat.ID)
	if err := s.chatRepo.Save(ctx, chat); err != nil {
		return nil, err
	}

	s.logger.Info("chat shared", "id", chatID, "user_id", session.User.ID)
	return chat, nil
}

// GetShared retrieves a shared chat for anyone
func (s *Service) GetShared(ctx context.Context, chatID string) (*models.Chat, error) {
	chat, err := s.chatRepo.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.SharePath == "" {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("chat %s is not shared", chatID)}
	}
	return chat, nil
}

func requireSession(session *models.Session) error {
	if !session.Authenticated() {
		return &domain.UnauthorizedError{Message: "sign in required"}
	}
	return nil
}

var _ services.ChatService = (*Service)(nil)
