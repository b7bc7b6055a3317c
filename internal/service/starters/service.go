// Package starters serves the conversation starters shown on an empty chat.
package starters

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"movierec/internal/domain/models"
	"movierec/internal/domain/services"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Service implements services.StarterService. Image URLs are resolved on
// first use and cached for the process lifetime. Concurrent first callers
// share one resolution.
type Service struct {
	movies   services.MovieService
	defaults []models.ConversationStarter

	group    singleflight.Group
	mu       sync.RWMutex
	resolved []models.ConversationStarter
}

// NewService loads the embedded default starters.
func NewService(movies services.MovieService) (*Service, error) {
	defaults, err := Parse(defaultsYAML)
	if err != nil {
		return nil, err
	}
	return &Service{movies: movies, defaults: defaults}, nil
}

// Parse decodes a YAML list of starters.
func Parse(data []byte) ([]models.ConversationStarter, error) {
	var starters []models.ConversationStarter
	if err := yaml.Unmarshal(data, &starters); err != nil {
		return nil, fmt.Errorf("parse starters: %w", err)
	}
	return starters, nil
}

// Defaults returns the default starters with images.
func (s *Service) Defaults(ctx context.Context) []models.ConversationStarter {
	s.mu.RLock()
	cached := s.resolved
	s.mu.RUnlock()
	if cached != nil {
		return cached
	}

	v, _, _ := s.group.Do("defaults", func() (any, error) {
		resolved := s.movies.ResolveStarterImages(ctx, s.defaults)
		if complete(resolved) {
			s.mu.Lock()
			s.resolved = resolved
			s.mu.Unlock()
		}
		return resolved, nil
	})
	return v.([]models.ConversationStarter)
}

// complete reports whether every starter got an image; partial results are
// not cached so a transient lookup failure is retried.
func complete(starters []models.ConversationStarter) bool {
	for _, st := range starters {
		if st.Image.URL == "" {
			return false
		}
	}
	return true
}

var _ services.StarterService = (*Service)(nil)
