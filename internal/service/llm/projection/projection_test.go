package projection

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movierec/internal/domain/models"
	"movierec/internal/service/llm/tools"
)

type stubMovies struct{ calls *atomic.Int32 }

func (s stubMovies) Enrich(_ context.Context, items []models.BasicMovieInfo) []models.MovieCardItem {
	s.calls.Add(1)
	out := make([]models.MovieCardItem, len(items))
	for i, it := range items {
		out[i] = models.MovieCardItem{LLMData: it, Movie: &models.Movie{Name: it.Title}}
	}
	return out
}

func (s stubMovies) ResolveStarterImages(_ context.Context, in []models.ConversationStarter) []models.ConversationStarter {
	s.calls.Add(1)
	out := make([]models.ConversationStarter, len(in))
	copy(out, in)
	for i := range out {
		out[i].Image.URL = "u"
	}
	return out
}

func (s stubMovies) Trailer(context.Context, string) (string, error) { return "", nil }

func newProjector() (*Projector, *atomic.Int32) {
	calls := &atomic.Int32{}
	registry := tools.NewToolRegistryBuilder().WithMovieTools(stubMovies{calls: calls}).Build()
	return NewProjector(registry, slog.New(slog.NewTextHandler(io.Discard, nil))), calls
}

func sampleChat() *models.Chat {
	return &models.Chat{
		ID: "c1",
		Messages: models.Transcript{
			{ID: "a", Role: models.RoleSystem, Content: "[Operator note: keep answers short]"},
			{ID: "b", Role: models.RoleUser, Content: "Sci-fi?"},
			{ID: "c", Role: models.RoleFunction, Name: models.ToolShowMovies, Content: `[{"title":"Blade Runner","year":"1982","synopsis":"s"}]`},
			{ID: "d", Role: models.RoleAssistant, Content: "Enjoy!"},
			{ID: "e", Role: models.RoleFunction, Name: "showMovieCast", Content: `["Harrison Ford"]`},
			{ID: "f", Role: models.RoleFunction, Name: models.ToolGenerateConversationStarters, Content: `[{"heading":"h","subheading":"s","prompt":"p","image":{"type":"person","query":"Ridley Scott"}}]`},
			{ID: "g", Role: models.RoleData, Content: "meta"},
		},
	}
}

func TestProject(t *testing.T) {
	p, calls := newProjector()

	entries := p.Project(sampleChat())

	require.Len(t, entries, 6)
	kinds := make([]models.UIEntryKind, len(entries))
	for i, e := range entries {
		kinds[i] = e.Kind
		assert.Equal(t, EntryID("c1", i), e.ID)
	}
	assert.Equal(t, []models.UIEntryKind{
		models.UIEntryUserText,
		models.UIEntryMovieCards,
		models.UIEntryAssistantText,
		models.UIEntryUnsupported,
		models.UIEntryConversationStarters,
		models.UIEntryAssistantText,
	}, kinds)

	assert.Equal(t, "c1-0", entries[0].ID)
	assert.Equal(t, "showMovieCast", entries[3].ToolName)
	assert.Nil(t, entries[1].Movies[0].Movie)
	assert.Zero(t, calls.Load(), "projection performs no lookups")
}

func TestProject_Deterministic(t *testing.T) {
	p, _ := newProjector()
	chat := sampleChat()

	assert.Equal(t, p.Project(chat), p.Project(chat))
}

func TestProject_CorruptFunctionContent(t *testing.T) {
	p, _ := newProjector()
	chat := &models.Chat{ID: "c1", Messages: models.Transcript{
		{ID: "x", Role: models.RoleFunction, Name: models.ToolShowMovies, Content: `not json`},
	}}

	entries := p.Project(chat)
	require.Len(t, entries, 1)
	assert.Equal(t, models.UIEntryUnsupported, entries[0].Kind)
}

func TestRender(t *testing.T) {
	p, calls := newProjector()

	entries := p.Render(context.Background(), sampleChat())

	require.Len(t, entries, 6)
	require.NotNil(t, entries[1].Movies[0].Movie)
	assert.Equal(t, "Blade Runner", entries[1].Movies[0].Movie.Name)
	assert.Equal(t, "c1-1", entries[1].ID)
	assert.Equal(t, "u", entries[4].Starters[0].Image.URL)
	assert.Equal(t, models.UIEntryUnsupported, entries[3].Kind)
	assert.Equal(t, int32(2), calls.Load())
}
