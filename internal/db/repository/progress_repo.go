package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/milboard/milboard/internal/db/sqlc"
)

type progressStore interface {
	ListModuleProgress(ctx context.Context, userID pgtype.UUID) ([]sqlcgen.ModuleProgress, error)
	GetModuleProgress(ctx context.Context, arg sqlcgen.GetModuleProgressParams) (sqlcgen.ModuleProgress, error)
	UpsertModuleProgress(ctx context.Context, arg sqlcgen.UpsertModuleProgressParams) (sqlcgen.ModuleProgress, error)
}

// ProgressRepository tracks per-user learning module progress.
type ProgressRepository struct {
	store progressStore
}

// NewProgressRepository constructs a progress repository.
func NewProgressRepository(store progressStore) *ProgressRepository {
	return &ProgressRepository{store: store}
}

// List returns every progress row for a user.
func (r *ProgressRepository) List(ctx context.Context, userID uuid.UUID) ([]sqlcgen.ModuleProgress, error) {
	return r.store.ListModuleProgress(ctx, PGUUID(userID))
}

// Get returns progress for one module. Returns ErrNotFound when untouched.
func (r *ProgressRepository) Get(ctx context.Context, userID uuid.UUID, moduleID string) (sqlcgen.ModuleProgress, error) {
	row, err := r.store.GetModuleProgress(ctx, sqlcgen.GetModuleProgressParams{
		UserID:   PGUUID(userID),
		ModuleID: moduleID,
	})
	return row, mapNotFound(err)
}

// Upsert writes progress. The stored percentage never decreases.
func (r *ProgressRepository) Upsert(ctx context.Context, userID uuid.UUID, moduleID string, progress int, completed []string) (sqlcgen.ModuleProgress, error) {
	if completed == nil {
		completed = []string{}
	}
	return r.store.UpsertModuleProgress(ctx, sqlcgen.UpsertModuleProgressParams{
		UserID:            PGUUID(userID),
		ModuleID:          moduleID,
		Progress:          int32(progress),
		CompletedContents: completed,
	})
}
