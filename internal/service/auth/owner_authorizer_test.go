package auth

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
	"movierec/internal/repository/kvstore"
	"movierec/internal/repository/memory"
)

func TestOwnerBasedAuthorizer(t *testing.T) {
	ctx := context.Background()
	repo := kvstore.NewChatRepository(memory.NewKV(), memory.NewTransactionManager(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, repo.Save(ctx, &models.Chat{ID: "c1", UserID: "owner", CreatedAt: time.Now()}))

	a := NewOwnerBasedAuthorizer(repo)

	assert.NoError(t, a.CanAccessChat(ctx, "owner", "c1"))
	assert.ErrorIs(t, a.CanAccessChat(ctx, "intruder", "c1"), domain.ErrForbidden)
	assert.ErrorIs(t, a.CanAccessChat(ctx, "owner", "missing"), domain.ErrNotFound)
}
