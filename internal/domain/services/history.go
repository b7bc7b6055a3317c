package services

import (
	"context"

	"movierec/internal/domain/models"
)

// HistoryService reads and writes a user's free-text watch history.
type HistoryService interface {
	// Get returns "" for anonymous sessions and users without history.
	Get(ctx context.Context, session *models.Session) (string, error)
	Set(ctx context.Context, session *models.Session, history string) error
}
