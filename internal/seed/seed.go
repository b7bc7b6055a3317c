// Package seed writes demo data for a user: a watch history and one chat
// containing a movie card turn.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"movierec/internal/domain/models"
	"movierec/internal/domain/repositories"
)

// SampleHistory is the watch history seeded for demo users.
const SampleHistory = `Loved: Die Hard, Inception, Blade Runner.
Liked: Toy Story, Forrest Gump.
Did not finish: Barbie.
Prefers: practical effects, twisty plots, under two and a half hours.`

// SampleChatID is stable so re-running the seeder overwrites instead of duplicating.
const SampleChatID = "seeded-demo-chat"

// Seeder writes demo data through the repositories
type Seeder struct {
	chats   repositories.ChatRepository
	history repositories.HistoryRepository
	logger  *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(chats repositories.ChatRepository, history repositories.HistoryRepository, logger *slog.Logger) *Seeder {
	return &Seeder{
		chats:   chats,
		history: history,
		logger:  logger,
	}
}

// SeedUser writes the sample history for email and the sample chat for userID.
func (s *Seeder) SeedUser(ctx context.Context, userID, email string) error {
	if err := s.history.Set(ctx, email, SampleHistory); err != nil {
		return fmt.Errorf("seed history: %w", err)
	}
	s.logger.Info("seeded watch history", "email", email)

	chat, err := SampleChat(userID, time.Now())
	if err != nil {
		return err
	}
	if err := s.chats.Save(ctx, chat); err != nil {
		return fmt.Errorf("seed chat: %w", err)
	}
	s.logger.Info("seeded chat", "chat_id", chat.ID, "user_id", userID, "messages", len(chat.Messages))
	return nil
}

// SampleChat builds a chat with one text turn and one movie card turn.
func SampleChat(userID string, createdAt time.Time) (*models.Chat, error) {
	cards := []models.BasicMovieInfo{
		{
			Title:    "Die Hard",
			Year:     "1988",
			Synopsis: "An off-duty cop takes on terrorists in a Los Angeles skyscraper.",
			Themes:   []models.Theme{{Theme: "action", Amount: 0.7}, {Theme: "humor", Amount: 0.3}},
		},
		{
			Title:    "Inception",
			Year:     "2010",
			Synopsis: "A thief who steals secrets through dreams is asked to plant one instead.",
			Themes:   []models.Theme{{Theme: "heist", Amount: 0.5}, {Theme: "mind-bending", Amount: 0.5}},
		},
	}
	content, err := json.Marshal(cards)
	if err != nil {
		return nil, fmt.Errorf("encode sample cards: %w", err)
	}

	first := "Hi! What should I watch tonight?"
	return &models.Chat{
		ID:        SampleChatID,
		Title:     first,
		UserID:    userID,
		CreatedAt: createdAt,
		Path:      models.ChatPath(SampleChatID),
		Messages: models.Transcript{
			{ID: "seed-1", Role: models.RoleUser, Content: first},
			{ID: "seed-2", Role: models.RoleAssistant, Content: "Happy to help. Are you in the mood for something tense or something light?"},
			{ID: "seed-3", Role: models.RoleUser, Content: "Tense, but fun. Show me movie cards."},
			{ID: "seed-4", Role: models.RoleFunction, Name: models.ToolShowMovies, Content: string(content)},
		},
	}, nil
}
