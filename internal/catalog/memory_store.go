package catalog

import (
	"context"

	"github.com/milboard/milboard/internal/quiz"
)

// MemoryStore serves definitions loaded at startup. It is read-only after
// construction and safe for concurrent use.
type MemoryStore struct {
	order []string
	byID  map[string]quiz.Definition
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore indexes defs, keeping their order for listing.
func NewMemoryStore(defs []quiz.Definition) *MemoryStore {
	s := &MemoryStore{
		order: make([]string, 0, len(defs)),
		byID:  make(map[string]quiz.Definition, len(defs)),
	}
	for _, def := range defs {
		if _, exists := s.byID[def.ID]; !exists {
			s.order = append(s.order, def.ID)
		}
		s.byID[def.ID] = def
	}
	return s
}

func (s *MemoryStore) List(_ context.Context) ([]quiz.Definition, error) {
	out := make([]quiz.Definition, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (quiz.Definition, error) {
	def, ok := s.byID[id]
	if !ok {
		return quiz.Definition{}, ErrQuizNotFound
	}
	return def, nil
}
