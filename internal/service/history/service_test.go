package history

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movierec/internal/config"
	"movierec/internal/domain"
	"movierec/internal/domain/models"
	"movierec/internal/repository/kvstore"
	"movierec/internal/repository/memory"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	svc := NewService(kvstore.NewHistoryRepository(memory.NewKV()), slog.New(slog.NewTextHandler(io.Discard, nil)))
	session := &models.Session{User: models.SessionUser{ID: "u1", Email: "ana@example.com"}}

	h, err := svc.Get(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, h)

	assert.ErrorIs(t, svc.Set(ctx, nil, "x"), domain.ErrUnauthorized)

	require.NoError(t, svc.Set(ctx, session, "  Watched: Heat, Alien  "))
	h, err = svc.Get(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "Watched: Heat, Alien", h)

	err = svc.Set(ctx, session, strings.Repeat("a", config.MaxHistoryLength+1))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
