package repository

import (
	"context"
	"fmt"

	sqlcgen "github.com/milboard/milboard/internal/db/sqlc"
)

type quizStore interface {
	UpsertQuiz(ctx context.Context, arg sqlcgen.UpsertQuizParams) error
	DeleteQuizQuestions(ctx context.Context, quizID string) error
	InsertQuizQuestion(ctx context.Context, arg sqlcgen.InsertQuizQuestionParams) error
	ListQuizzes(ctx context.Context) ([]sqlcgen.Quiz, error)
	GetQuiz(ctx context.Context, quizID string) (sqlcgen.Quiz, error)
	ListQuizQuestions(ctx context.Context, quizID string) ([]sqlcgen.QuizQuestion, error)
}

// QuizRepository persists quiz definitions and their ordered questions.
type QuizRepository struct {
	store quizStore
}

// NewQuizRepository constructs a quiz repository.
func NewQuizRepository(store quizStore) *QuizRepository {
	return &QuizRepository{store: store}
}

// List returns quiz headers in display order.
func (r *QuizRepository) List(ctx context.Context) ([]sqlcgen.Quiz, error) {
	return r.store.ListQuizzes(ctx)
}

// Get returns a quiz header with its questions in order.
func (r *QuizRepository) Get(ctx context.Context, quizID string) (sqlcgen.Quiz, []sqlcgen.QuizQuestion, error) {
	quiz, err := r.store.GetQuiz(ctx, quizID)
	if err != nil {
		return sqlcgen.Quiz{}, nil, mapNotFound(err)
	}
	questions, err := r.store.ListQuizQuestions(ctx, quizID)
	if err != nil {
		return sqlcgen.Quiz{}, nil, fmt.Errorf("list questions for %s: %w", quizID, err)
	}
	return quiz, questions, nil
}

// Replace upserts the quiz header and rewrites its question list.
func (r *QuizRepository) Replace(ctx context.Context, quiz sqlcgen.UpsertQuizParams, questions []sqlcgen.InsertQuizQuestionParams) error {
	if err := r.store.UpsertQuiz(ctx, quiz); err != nil {
		return fmt.Errorf("upsert quiz %s: %w", quiz.QuizID, err)
	}
	if err := r.store.DeleteQuizQuestions(ctx, quiz.QuizID); err != nil {
		return fmt.Errorf("clear questions for %s: %w", quiz.QuizID, err)
	}
	for _, q := range questions {
		if err := r.store.InsertQuizQuestion(ctx, q); err != nil {
			return fmt.Errorf("insert question %s/%s: %w", quiz.QuizID, q.QuestionID, err)
		}
	}
	return nil
}
