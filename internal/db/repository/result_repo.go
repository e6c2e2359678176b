package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/milboard/milboard/internal/db/sqlc"
)

type resultStore interface {
	InsertQuizResult(ctx context.Context, arg sqlcgen.InsertQuizResultParams) (sqlcgen.QuizResult, error)
	ListResultsByUser(ctx context.Context, arg sqlcgen.ListResultsByUserParams) ([]sqlcgen.QuizResult, error)
	ListBestResultsByUser(ctx context.Context, userID pgtype.UUID) ([]sqlcgen.ListBestResultsByUserRow, error)
}

// ResultRepository stores completed quiz attempts.
type ResultRepository struct {
	store resultStore
}

// NewResultRepository constructs a result repository.
func NewResultRepository(store resultStore) *ResultRepository {
	return &ResultRepository{store: store}
}

// Insert persists one completed attempt.
func (r *ResultRepository) Insert(ctx context.Context, params sqlcgen.InsertQuizResultParams) (sqlcgen.QuizResult, error) {
	return r.store.InsertQuizResult(ctx, params)
}

// ListByUser returns the most recent attempts first.
func (r *ResultRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]sqlcgen.QuizResult, error) {
	return r.store.ListResultsByUser(ctx, sqlcgen.ListResultsByUserParams{
		UserID: PGUUID(userID),
		Limit:  int32(limit),
	})
}

// BestByUser returns the best attempt per quiz.
func (r *ResultRepository) BestByUser(ctx context.Context, userID uuid.UUID) ([]sqlcgen.ListBestResultsByUserRow, error) {
	return r.store.ListBestResultsByUser(ctx, PGUUID(userID))
}
