package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	sqlcgen "github.com/milboard/milboard/internal/db/sqlc"
)

type mockResultStore struct {
	mock.Mock
}

func (m *mockResultStore) InsertQuizResult(ctx context.Context, arg sqlcgen.InsertQuizResultParams) (sqlcgen.QuizResult, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.QuizResult), args.Error(1)
}

func (m *mockResultStore) ListResultsByUser(ctx context.Context, arg sqlcgen.ListResultsByUserParams) ([]sqlcgen.QuizResult, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]sqlcgen.QuizResult), args.Error(1)
}

func (m *mockResultStore) ListBestResultsByUser(ctx context.Context, userID pgtype.UUID) ([]sqlcgen.ListBestResultsByUserRow, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]sqlcgen.ListBestResultsByUserRow), args.Error(1)
}

func TestResultRepository_Insert(t *testing.T) {
	store := new(mockResultStore)
	repo := NewResultRepository(store)

	params := sqlcgen.InsertQuizResultParams{
		UserID:     pgID(7),
		QuizID:     "quiz-1",
		Correct:    2,
		Total:      3,
		Percentage: 67,
		Band:       "fair",
	}
	expect := sqlcgen.QuizResult{ResultID: pgID(9), QuizID: "quiz-1", Percentage: 67}
	store.On("InsertQuizResult", mock.Anything, params).Return(expect, nil)

	got, err := repo.Insert(context.Background(), params)

	assert.NoError(t, err)
	assert.Equal(t, expect, got)
	store.AssertExpectations(t)
}

func TestResultRepository_ListByUser(t *testing.T) {
	store := new(mockResultStore)
	repo := NewResultRepository(store)

	id := uuid.New()
	rows := []sqlcgen.QuizResult{{QuizID: "quiz-2"}, {QuizID: "quiz-1"}}
	store.On("ListResultsByUser", mock.Anything, sqlcgen.ListResultsByUserParams{
		UserID: PGUUID(id),
		Limit:  20,
	}).Return(rows, nil)

	got, err := repo.ListByUser(context.Background(), id, 20)

	assert.NoError(t, err)
	assert.Equal(t, rows, got)
	store.AssertExpectations(t)
}

func TestResultRepository_BestByUser(t *testing.T) {
	store := new(mockResultStore)
	repo := NewResultRepository(store)

	id := uuid.New()
	rows := []sqlcgen.ListBestResultsByUserRow{{QuizID: "quiz-1", Percentage: 100, Attempts: 3}}
	store.On("ListBestResultsByUser", mock.Anything, PGUUID(id)).Return(rows, nil)

	got, err := repo.BestByUser(context.Background(), id)

	assert.NoError(t, err)
	assert.Equal(t, rows, got)
	store.AssertExpectations(t)
}
