package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	sqlcgen "github.com/milboard/milboard/internal/db/sqlc"
)

type mockProgressStore struct {
	mock.Mock
}

func (m *mockProgressStore) ListModuleProgress(ctx context.Context, userID pgtype.UUID) ([]sqlcgen.ModuleProgress, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]sqlcgen.ModuleProgress), args.Error(1)
}

func (m *mockProgressStore) GetModuleProgress(ctx context.Context, arg sqlcgen.GetModuleProgressParams) (sqlcgen.ModuleProgress, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.ModuleProgress), args.Error(1)
}

func (m *mockProgressStore) UpsertModuleProgress(ctx context.Context, arg sqlcgen.UpsertModuleProgressParams) (sqlcgen.ModuleProgress, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.ModuleProgress), args.Error(1)
}

func TestProgressRepository_GetNotFound(t *testing.T) {
	store := new(mockProgressStore)
	repo := NewProgressRepository(store)

	id := uuid.New()
	store.On("GetModuleProgress", mock.Anything, sqlcgen.GetModuleProgressParams{
		UserID:   PGUUID(id),
		ModuleID: "module-1",
	}).Return(sqlcgen.ModuleProgress{}, pgx.ErrNoRows)

	_, err := repo.Get(context.Background(), id, "module-1")

	assert.ErrorIs(t, err, ErrNotFound)
	store.AssertExpectations(t)
}

func TestProgressRepository_UpsertNormalisesNilContents(t *testing.T) {
	store := new(mockProgressStore)
	repo := NewProgressRepository(store)

	id := uuid.New()
	params := sqlcgen.UpsertModuleProgressParams{
		UserID:            PGUUID(id),
		ModuleID:          "module-2",
		Progress:          40,
		CompletedContents: []string{},
	}
	expect := sqlcgen.ModuleProgress{ModuleID: "module-2", Progress: 40}
	store.On("UpsertModuleProgress", mock.Anything, params).Return(expect, nil)

	got, err := repo.Upsert(context.Background(), id, "module-2", 40, nil)

	assert.NoError(t, err)
	assert.Equal(t, expect, got)
	store.AssertExpectations(t)
}

func TestProgressRepository_List(t *testing.T) {
	store := new(mockProgressStore)
	repo := NewProgressRepository(store)

	id := uuid.New()
	rows := []sqlcgen.ModuleProgress{{ModuleID: "module-1", Progress: 75}}
	store.On("ListModuleProgress", mock.Anything, PGUUID(id)).Return(rows, nil)

	got, err := repo.List(context.Background(), id)

	assert.NoError(t, err)
	assert.Equal(t, rows, got)
	store.AssertExpectations(t)
}
