package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/milboard/milboard/internal/metrics"
	"github.com/milboard/milboard/internal/quiz"
)

// Service answers quiz catalog queries with a read-through cache.
type Service struct {
	store  Store
	cache  DefinitionCache
	logger zerolog.Logger
}

// NewService builds a catalog service. cache may be nil.
func NewService(store Store, cache DefinitionCache, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// List returns quiz summaries, optionally filtered by difficulty.
func (s *Service) List(ctx context.Context, difficulty string) ([]Summary, error) {
	if difficulty != "" && !validDifficulty(difficulty) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilter, difficulty)
	}
	defs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(defs))
	for _, def := range defs {
		if difficulty != "" && def.Difficulty != difficulty {
			continue
		}
		out = append(out, Summarize(def))
	}
	return out, nil
}

// Get returns the full definition for id, or ErrQuizNotFound.
func (s *Service) Get(ctx context.Context, id string) (quiz.Definition, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("quiz_id", id).Msg("catalog cache read failed")
		case cached != nil:
			metrics.ContentCacheLookups.WithLabelValues("hit").Inc()
			return *cached, nil
		default:
			metrics.ContentCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	def, err := s.store.Get(ctx, id)
	if err != nil {
		return quiz.Definition{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, def); err != nil {
			s.logger.Warn().Err(err).Str("quiz_id", id).Msg("catalog cache write failed")
		}
	}
	return def, nil
}

// Warm loads every definition into the cache.
func (s *Service) Warm(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	defs, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, def := range defs {
		if err := s.cache.Set(ctx, def); err != nil {
			return 0, fmt.Errorf("cache quiz %s: %w", def.ID, err)
		}
	}
	return len(defs), nil
}
