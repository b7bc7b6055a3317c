// Package kvstore implements the chat and history repositories on top of any
// repositories.KV backend, using the key layout of the hosted KV store:
//
//	chat:<id>            chat record (JSON)
//	user:chat:<userId>   index of the user's chat keys, scored by creation time
//	history:<email>      watch history (JSON string)
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"movierec/internal/domain"
	"movierec/internal/domain/models"
	"movierec/internal/domain/repositories"
)

const (
	chatKeyPrefix      = "chat:"
	userChatsKeyPrefix = "user:chat:"
	historyKeyPrefix   = "history:"
)

func chatKey(id string) string          { return chatKeyPrefix + id }
func userChatsKey(userID string) string { return userChatsKeyPrefix + userID }
func historyKey(email string) string    { return historyKeyPrefix + email }

// ChatRepository implements repositories.ChatRepository
type ChatRepository struct {
	kv     repositories.KV
	tx     repositories.TransactionManager
	logger *slog.Logger
}

// NewChatRepository creates a chat repository over kv
func NewChatRepository(kv repositories.KV, tx repositories.TransactionManager, logger *slog.Logger) repositories.ChatRepository {
	return &ChatRepository{kv: kv, tx: tx, logger: logger}
}

func (r *ChatRepository) Save(ctx context.Context, chat *models.Chat) error {
	data, err := json.Marshal(chat)
	if err != nil {
		return fmt.Errorf("encode chat: %w", err)
	}

	return r.tx.ExecTx(ctx, func(ctx context.Context) error {
		if err := r.kv.Set(ctx, chatKey(chat.ID), data); err != nil {
			return err
		}
		score := float64(chat.CreatedAt.UnixMilli())
		return r.kv.IndexAdd(ctx, userChatsKey(chat.UserID), score, chatKey(chat.ID))
	})
}

func (r *ChatRepository) Get(ctx context.Context, id string) (*models.Chat, error) {
	data, err := r.kv.Get(ctx, chatKey(id))
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	if data == nil {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("chat %s not found", id)}
	}

	var chat models.Chat
	if err := json.Unmarshal(data, &chat); err != nil {
		return nil, fmt.Errorf("decode chat %s: %w", id, err)
	}
	return &chat, nil
}

func (r *ChatRepository) ListByUser(ctx context.Context, userID string) ([]models.Chat, error) {
	keys, err := r.kv.IndexMembers(ctx, userChatsKey(userID))
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	chats := make([]models.Chat, 0, len(keys))
	for _, key := range keys {
		chat, err := r.Get(ctx, strings.TrimPrefix(key, chatKeyPrefix))
		if err != nil {
			// index entry without a record; skip rather than fail the listing
			r.logger.Warn("dangling chat index entry", "user_id", userID, "key", key, "error", err)
			continue
		}
		chats = append(chats, *chat)
	}
	return chats, nil
}

func (r *ChatRepository) Delete(ctx context.Context, id, userID string) error {
	return r.tx.ExecTx(ctx, func(ctx context.Context) error {
		if err := r.kv.IndexRemove(ctx, userChatsKey(userID), chatKey(id)); err != nil {
			return err
		}
		return r.kv.Delete(ctx, chatKey(id))
	})
}

func (r *ChatRepository) DeleteAllByUser(ctx context.Context, userID string) error {
	keys, err := r.kv.IndexMembers(ctx, userChatsKey(userID))
	if err != nil {
		return fmt.Errorf("list chats: %w", err)
	}

	return r.tx.ExecTx(ctx, func(ctx context.Context) error {
		return r.kv.Delete(ctx, append(keys, userChatsKey(userID))...)
	})
}
