package repositories

import "context"

// HistoryRepository stores the free-text watch history of a user, keyed by email.
type HistoryRepository interface {
	// Get returns the stored history, or "" when the user has none.
	Get(ctx context.Context, email string) (string, error)

	// Set replaces the stored history.
	Set(ctx context.Context, email, history string) error
}
