package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"movierec/internal/domain"
	"movierec/internal/domain/models"
	"movierec/internal/domain/services"
)

// RefineService implements services.RefineService by rewriting the filter
// as a natural-language request for movie cards.
type RefineService struct {
	turns services.TurnProcessor
}

// NewRefineService creates a refine service on top of a turn processor
func NewRefineService(turns services.TurnProcessor) *RefineService {
	return &RefineService{turns: turns}
}

// Refine submits the filter as one user sentence with forced movie cards.
// The model and the transcript only ever see that sentence.
func (s *RefineService) Refine(
	ctx context.Context,
	session *models.Session,
	state models.AIState,
	query models.RefineSearchQuery,
	display services.Display,
) (*services.TurnResult, error) {
	if err := validateRefineQuery(&query); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return s.turns.SubmitUserMessage(ctx, session, state, RefineSentence(query), true, display)
}

func validateRefineQuery(q *models.RefineSearchQuery) error {
	if isEmptyQuery(q) {
		return fmt.Errorf("refine query has no criteria")
	}
	return validation.ValidateStruct(q,
		validation.Field(&q.Actors, validation.Each(validation.Required)),
		validation.Field(&q.Genres, validation.Each(validation.Required)),
		validation.Field(&q.Keywords, validation.Each(validation.Required)),
		validation.Field(&q.LikeTitles, validation.Each(validation.Required)),
		validation.Field(&q.Rating, validation.Min(0.0), validation.Max(10.0)),
		validation.Field(&q.Year, validation.Min(1870), validation.Max(2100)),
		validation.Field(&q.Duration, validation.Min(1)),
	)
}

func isEmptyQuery(q *models.RefineSearchQuery) bool {
	return len(q.Actors) == 0 && len(q.Genres) == 0 && len(q.Keywords) == 0 &&
		len(q.LikeTitles) == 0 && q.Rating == nil && q.Year == nil && q.Duration == nil &&
		strings.TrimSpace(q.Director) == "" && strings.TrimSpace(q.Language) == ""
}

// RefineSentence renders the filter as one request, e.g.
// "Recommend multiple comedy movies starring Tom Hanks."
func RefineSentence(q models.RefineSearchQuery) string {
	parts := []string{"Recommend multiple"}
	if len(q.Genres) > 0 {
		parts = append(parts, strings.ToLower(strings.Join(q.Genres, ", ")))
	}
	parts = append(parts, "movies")
	if len(q.Actors) > 0 {
		parts = append(parts, "starring "+strings.Join(q.Actors, ", "))
	}
	if d := strings.TrimSpace(q.Director); d != "" {
		parts = append(parts, "directed by "+d+" or a similar director")
	}
	if len(q.Keywords) > 0 {
		parts = append(parts, "about "+strings.Join(q.Keywords, ", "))
	}
	if q.Year != nil {
		parts = append(parts, "released around "+strconv.Itoa(*q.Year))
	}
	if q.Rating != nil {
		parts = append(parts, "rated at least "+strconv.FormatFloat(*q.Rating, 'f', -1, 64))
	}
	if q.Duration != nil {
		parts = append(parts, "no longer than "+strconv.Itoa(*q.Duration)+" minutes")
	}
	if l := strings.TrimSpace(q.Language); l != "" {
		parts = append(parts, "in "+l)
	}
	if len(q.LikeTitles) > 0 {
		parts = append(parts, "similar to "+strings.Join(q.LikeTitles, ", "))
	}
	return strings.Join(parts, " ") + "."
}

var _ services.RefineService = (*RefineService)(nil)
