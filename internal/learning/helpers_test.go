package learning

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/milboard/milboard/internal/db/repository"
	sqlcgen "github.com/milboard/milboard/internal/db/sqlc"
)

// memProgress mirrors the GREATEST upsert of the SQL store.
type memProgress struct {
	mu   sync.Mutex
	rows map[string]sqlcgen.ModuleProgress
}

func newMemProgress() *memProgress {
	return &memProgress{rows: make(map[string]sqlcgen.ModuleProgress)}
}

func key(userID uuid.UUID, moduleID string) string { return userID.String() + "/" + moduleID }

func (m *memProgress) List(_ context.Context, userID uuid.UUID) ([]sqlcgen.ModuleProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sqlcgen.ModuleProgress
	for _, row := range m.rows {
		if repository.FromPGUUID(row.UserID) == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memProgress) Get(_ context.Context, userID uuid.UUID, moduleID string) (sqlcgen.ModuleProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[key(userID, moduleID)]
	if !ok {
		return sqlcgen.ModuleProgress{}, repository.ErrNotFound
	}
	return row, nil
}

func (m *memProgress) Upsert(_ context.Context, userID uuid.UUID, moduleID string, progress int, completed []string) (sqlcgen.ModuleProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(userID, moduleID)
	row, ok := m.rows[k]
	if !ok || int32(progress) > row.Progress {
		row.Progress = int32(progress)
	}
	row.UserID = repository.PGUUID(userID)
	row.ModuleID = moduleID
	row.CompletedContents = completed
	m.rows[k] = row
	return row, nil
}

func sampleModules() []Module {
	return []Module{
		{
			ID: "module-1", Title: "Introduction to Media Literacy", Description: "Learn the fundamentals",
			Category: CategoryFoundations, Featured: true,
			Topics:   []string{"Media Basics", "Critical Thinking"},
			Contents: []Content{{ID: "c1", Title: "A", Body: "a"}, {ID: "c2", Title: "B", Body: "b"}, {ID: "c3", Title: "C", Body: "c"}},
		},
		{
			ID: "module-2", Title: "Digital Citizenship", Description: "Be a responsible citizen",
			Category: CategoryFoundations, Featured: true, IsNew: true,
			Topics:   []string{"Online Safety", "Critical Thinking"},
			Contents: []Content{{ID: "c1", Title: "A", Body: "a"}, {ID: "c2", Title: "B", Body: "b"}},
		},
		{
			ID: "module-3", Title: "Fake News", Description: "Spot misinformation",
			Category: CategoryAdvanced,
			Topics:   []string{"Fact Checking"},
			Contents: []Content{{ID: "c1", Title: "A", Body: "a"}},
		},
	}
}

func newTestService() (*Service, *memProgress) {
	store := newMemProgress()
	return NewService(sampleModules(), store, zerolog.Nop()), store
}
