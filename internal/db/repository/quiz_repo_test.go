package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	sqlcgen "github.com/milboard/milboard/internal/db/sqlc"
)

type mockQuizStore struct {
	mock.Mock
}

func (m *mockQuizStore) UpsertQuiz(ctx context.Context, arg sqlcgen.UpsertQuizParams) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockQuizStore) DeleteQuizQuestions(ctx context.Context, quizID string) error {
	return m.Called(ctx, quizID).Error(0)
}

func (m *mockQuizStore) InsertQuizQuestion(ctx context.Context, arg sqlcgen.InsertQuizQuestionParams) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockQuizStore) ListQuizzes(ctx context.Context) ([]sqlcgen.Quiz, error) {
	args := m.Called(ctx)
	return args.Get(0).([]sqlcgen.Quiz), args.Error(1)
}

func (m *mockQuizStore) GetQuiz(ctx context.Context, quizID string) (sqlcgen.Quiz, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).(sqlcgen.Quiz), args.Error(1)
}

func (m *mockQuizStore) ListQuizQuestions(ctx context.Context, quizID string) ([]sqlcgen.QuizQuestion, error) {
	args := m.Called(ctx, quizID)
	return args.Get(0).([]sqlcgen.QuizQuestion), args.Error(1)
}

func TestQuizRepository_Get(t *testing.T) {
	store := new(mockQuizStore)
	repo := NewQuizRepository(store)

	quiz := sqlcgen.Quiz{QuizID: "quiz-1", Title: "Dasar Literasi Media"}
	questions := []sqlcgen.QuizQuestion{
		{QuizID: "quiz-1", QuestionID: "q1", Position: 0, Options: []string{"a", "b"}, CorrectIndex: 1},
	}
	store.On("GetQuiz", mock.Anything, "quiz-1").Return(quiz, nil)
	store.On("ListQuizQuestions", mock.Anything, "quiz-1").Return(questions, nil)

	gotQuiz, gotQuestions, err := repo.Get(context.Background(), "quiz-1")

	assert.NoError(t, err)
	assert.Equal(t, quiz, gotQuiz)
	assert.Equal(t, questions, gotQuestions)
	store.AssertExpectations(t)
}

func TestQuizRepository_GetMissing(t *testing.T) {
	store := new(mockQuizStore)
	repo := NewQuizRepository(store)

	store.On("GetQuiz", mock.Anything, "nope").Return(sqlcgen.Quiz{}, pgx.ErrNoRows)

	_, _, err := repo.Get(context.Background(), "nope")

	assert.ErrorIs(t, err, ErrNotFound)
	store.AssertNotCalled(t, "ListQuizQuestions", mock.Anything, mock.Anything)
}

func TestQuizRepository_Replace(t *testing.T) {
	store := new(mockQuizStore)
	repo := NewQuizRepository(store)

	header := sqlcgen.UpsertQuizParams{QuizID: "quiz-2", Title: "Kewarganegaraan Digital", Difficulty: "intermediate"}
	q1 := sqlcgen.InsertQuizQuestionParams{QuizID: "quiz-2", QuestionID: "q1", Position: 0}
	q2 := sqlcgen.InsertQuizQuestionParams{QuizID: "quiz-2", QuestionID: "q2", Position: 1}

	store.On("UpsertQuiz", mock.Anything, header).Return(nil)
	store.On("DeleteQuizQuestions", mock.Anything, "quiz-2").Return(nil)
	store.On("InsertQuizQuestion", mock.Anything, q1).Return(nil)
	store.On("InsertQuizQuestion", mock.Anything, q2).Return(nil)

	err := repo.Replace(context.Background(), header, []sqlcgen.InsertQuizQuestionParams{q1, q2})

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestQuizRepository_ReplaceStopsOnError(t *testing.T) {
	store := new(mockQuizStore)
	repo := NewQuizRepository(store)

	header := sqlcgen.UpsertQuizParams{QuizID: "quiz-3"}
	boom := errors.New("db down")
	store.On("UpsertQuiz", mock.Anything, header).Return(boom)

	err := repo.Replace(context.Background(), header, nil)

	assert.ErrorIs(t, err, boom)
	store.AssertNotCalled(t, "DeleteQuizQuestions", mock.Anything, mock.Anything)
}
