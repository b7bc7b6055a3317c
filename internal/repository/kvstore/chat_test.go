package kvstore

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movierec/internal/domain"
	"movierec/internal/domain/models"
	"movierec/internal/repository/memory"
)

func newChatRepo() (*ChatRepository, *memory.KV) {
	kv := memory.NewKV()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewChatRepository(kv, memory.NewTransactionManager(), logger).(*ChatRepository), kv
}

func TestChatRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo, kv := newChatRepo()

	chat := &models.Chat{
		ID:        "c1",
		Title:     "Recommend something like Inception",
		UserID:    "u1",
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Path:      models.ChatPath("c1"),
		Messages: models.Transcript{
			{ID: "m1", Role: models.RoleUser, Content: "Recommend something like Inception"},
			{ID: "m2", Role: models.RoleFunction, Name: models.ToolShowMovies, Content: `[{"title":"Primer","year":"2004","synopsis":"s"}]`},
		},
	}
	require.NoError(t, repo.Save(ctx, chat))

	raw, err := kv.Get(ctx, "chat:c1")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"path":"/chat/c1"`)

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, chat.Title, got.Title)
	assert.Equal(t, chat.Messages, got.Messages)
	assert.True(t, chat.CreatedAt.Equal(got.CreatedAt))

	members, _ := kv.IndexMembers(ctx, "user:chat:u1")
	assert.Equal(t, []string{"chat:c1"}, members)
}

func TestChatRepository_GetMissing(t *testing.T) {
	repo, _ := newChatRepo()

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChatRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo, kv := newChatRepo()
	base := time.Now()

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Save(ctx, &models.Chat{
			ID: id, UserID: "u1", CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.Save(ctx, &models.Chat{ID: "other", UserID: "u2", CreatedAt: base}))

	// dangling index entries are skipped
	require.NoError(t, kv.IndexAdd(ctx, "user:chat:u1", 0, "chat:ghost"))

	chats, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, chats, 3)
	assert.Equal(t, "c", chats[0].ID)
	assert.Equal(t, "a", chats[2].ID)
}

func TestChatRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo, _ := newChatRepo()

	require.NoError(t, repo.Save(ctx, &models.Chat{ID: "a", UserID: "u1", CreatedAt: time.Now()}))
	require.NoError(t, repo.Save(ctx, &models.Chat{ID: "b", UserID: "u1", CreatedAt: time.Now()}))

	require.NoError(t, repo.Delete(ctx, "a", "u1"))
	_, err := repo.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	chats, _ := repo.ListByUser(ctx, "u1")
	assert.Len(t, chats, 1)

	require.NoError(t, repo.DeleteAllByUser(ctx, "u1"))
	chats, _ = repo.ListByUser(ctx, "u1")
	assert.Empty(t, chats)
	_, err = repo.Get(ctx, "b")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewHistoryRepository(memory.NewKV())

	h, err := repo.Get(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Empty(t, h)

	require.NoError(t, repo.Set(ctx, "a@b.c", "Seen: Alien, Heat"))
	h, err = repo.Get(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "Seen: Alien, Heat", h)
}
