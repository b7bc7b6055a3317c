package chat

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movierec/internal/domain"
	"movierec/internal/domain/models"
	"movierec/internal/domain/repositories"
	"movierec/internal/repository/kvstore"
	"movierec/internal/repository/memory"
	"movierec/internal/service/auth"
)

var (
	alice = &models.Session{User: models.SessionUser{ID: "alice", Email: "alice@example.com"}}
	bob   = &models.Session{User: models.SessionUser{ID: "bob", Email: "bob@example.com"}}
)

func newTestService(t *testing.T) (*Service, repositories.ChatRepository) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := kvstore.NewChatRepository(memory.NewKV(), memory.NewTransactionManager(), logger)
	svc := NewService(repo, auth.NewOwnerBasedAuthorizer(repo), logger)
	return svc, repo
}

func TestPersist_TitleFixedAtFirstSave(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	first := strings.Repeat("é", 150)
	state := models.AIState{ChatID: "c1", Messages: models.Transcript{
		{ID: "1", Role: models.RoleUser, Content: first},
	}}
	require.NoError(t, svc.Persist(ctx, alice, state))

	chat, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 100), chat.Title)
	assert.Equal(t, "/chat/c1", chat.Path)
	assert.Equal(t, "alice", chat.UserID)

	svc.now = func() time.Time { return time.Now() }
	state.Messages = models.Transcript{
		{ID: "0", Role: models.RoleUser, Content: "different first message"},
		{ID: "1", Role: models.RoleUser, Content: first},
		{ID: "2", Role: models.RoleAssistant, Content: "ok"},
	}
	require.NoError(t, svc.Persist(ctx, alice, state))

	chat, err = repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 100), chat.Title)
	assert.Len(t, chat.Messages, 3)
	assert.Equal(t, 2024, chat.CreatedAt.Year())
}

func TestPersist_Anonymous(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	state := models.AIState{ChatID: "c1", Messages: models.Transcript{{ID: "1", Role: models.RoleUser, Content: "hi"}}}
	require.NoError(t, svc.Persist(ctx, nil, state))
	require.NoError(t, svc.Commit(ctx, &models.Session{}, state))

	_, err := repo.Get(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPersist_ForeignChat(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	state := models.AIState{ChatID: "c1", Messages: models.Transcript{{ID: "1", Role: models.RoleUser, Content: "hi"}}}
	require.NoError(t, svc.Persist(ctx, alice, state))

	assert.ErrorIs(t, svc.Persist(ctx, bob, state), domain.ErrForbidden)
}

func TestGetListDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	for _, id := range []string{"a", "b"} {
		require.NoError(t, svc.Persist(ctx, alice, models.AIState{ChatID: id, Messages: models.Transcript{{ID: "1", Role: models.RoleUser, Content: id}}}))
	}

	_, err := svc.Get(ctx, nil, "a")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.Get(ctx, bob, "a")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	chat, err := svc.Get(ctx, alice, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", chat.Title)

	list, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	assert.ErrorIs(t, svc.Delete(ctx, bob, "a"), domain.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, alice, "a"))
	list, _ = svc.List(ctx, alice)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Clear(ctx, alice))
	list, _ = svc.List(ctx, alice)
	assert.Empty(t, list)
}

func TestLoadState(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	require.NoError(t, svc.Persist(ctx, alice, models.AIState{ChatID: "c1", Messages: models.Transcript{{ID: "1", Role: models.RoleUser, Content: "hi"}}}))

	state, err := svc.LoadState(ctx, alice, "c1")
	require.NoError(t, err)
	assert.Len(t, state.Messages, 1)

	state, err = svc.LoadState(ctx, alice, "new")
	require.NoError(t, err)
	assert.Equal(t, "new", state.ChatID)
	assert.Empty(t, state.Messages)

	state, err = svc.LoadState(ctx, nil, "c1")
	require.NoError(t, err)
	assert.Empty(t, state.Messages)

	_, err = svc.LoadState(ctx, bob, "c1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestShare(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	require.NoError(t, svc.Persist(ctx, alice, models.AIState{ChatID: "c1", Messages: models.Transcript{{ID: "1", Role: models.RoleUser, Content: "hi"}}}))

	_, err := svc.GetShared(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	chat, err := svc.Share(ctx, alice, "c1")
	require.NoError(t, err)
	assert.Equal(t, "/share/c1", chat.SharePath)

	shared, err := svc.GetShared(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", shared.ID)

	// sharing survives later turns
	require.NoError(t, svc.Persist(ctx, alice, models.AIState{ChatID: "c1", Messages: models.Transcript{{ID: "1", Role: models.RoleUser, Content: "hi"}, {ID: "2", Role: models.RoleAssistant, Content: "yo"}}}))
	shared, err = svc.GetShared(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, shared.Messages, 2)
}
