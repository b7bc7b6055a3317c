// Package history manages the free-text watch history spliced into the
// system prompt.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"movierec/internal/config"
	"movierec/internal/domain"
	"movierec/internal/domain/models"
	"movierec/internal/domain/repositories"
	"movierec/internal/domain/services"
)

// Service implements services.HistoryService
type Service struct {
	repo   repositories.HistoryRepository
	logger *slog.Logger
}

// NewService creates a history service
func NewService(repo repositories.HistoryRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Get(ctx context.Context, session *models.Session) (string, error) {
	if !session.Authenticated() || session.User.Email == "" {
		return "", nil
	}
	return s.repo.Get(ctx, session.User.Email)
}

func (s *Service) Set(ctx context.Context, session *models.Session, history string) error {
	if !session.Authenticated() {
		return &domain.UnauthorizedError{Message: "sign in required"}
	}
	if session.User.Email == "" {
		return fmt.Errorf("%w: session has no email", domain.ErrValidation)
	}

	history = strings.TrimSpace(history)
	if err := validation.Validate(history, validation.RuneLength(0, config.MaxHistoryLength)); err != nil {
		return fmt.Errorf("%w: history: %v", domain.ErrValidation, err)
	}

	if err := s.repo.Set(ctx, session.User.Email, history); err != nil {
		return err
	}
	s.logger.Info("watch history updated", "user_id", session.User.ID, "length", len(history))
	return nil
}

var _ services.HistoryService = (*Service)(nil)
