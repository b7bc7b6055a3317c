package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"movierec/internal/domain/repositories"
)

// HistoryRepository implements repositories.HistoryRepository
type HistoryRepository struct {
	kv repositories.KV
}

// NewHistoryRepository creates a history repository over kv
func NewHistoryRepository(kv repositories.KV) repositories.HistoryRepository {
	return &HistoryRepository{kv: kv}
}

func (r *HistoryRepository) Get(ctx context.Context, email string) (string, error) {
	data, err := r.kv.Get(ctx, historyKey(email))
	if err != nil {
		return "", fmt.Errorf("get history: %w", err)
	}
	if data == nil {
		return "", nil
	}

	var history string
	if err := json.Unmarshal(data, &history); err != nil {
		return "", fmt.Errorf("decode history: %w", err)
	}
	return history, nil
}

func (r *HistoryRepository) Set(ctx context.Context, email, history string) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := r.kv.Set(ctx, historyKey(email), data); err != nil {
		return fmt.Errorf("set history: %w", err)
	}
	return nil
}
