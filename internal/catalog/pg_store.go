package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/milboard/milboard/internal/db/repository"
	sqlcgen "github.com/milboard/milboard/internal/db/sqlc"
	"github.com/milboard/milboard/internal/quiz"
)

type quizRepository interface {
	List(ctx context.Context) ([]sqlcgen.Quiz, error)
	Get(ctx context.Context, quizID string) (sqlcgen.Quiz, []sqlcgen.QuizQuestion, error)
	Replace(ctx context.Context, quiz sqlcgen.UpsertQuizParams, questions []sqlcgen.InsertQuizQuestionParams) error
}

// PostgresStore reads definitions seeded into the quizzes tables.
type PostgresStore struct {
	repo quizRepository
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore wraps a quiz repository.
func NewPostgresStore(repo quizRepository) *PostgresStore {
	return &PostgresStore{repo: repo}
}

func (s *PostgresStore) List(ctx context.Context) ([]quiz.Definition, error) {
	headers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defs := make([]quiz.Definition, 0, len(headers))
	for _, h := range headers {
		def, err := s.Get(ctx, h.QuizID)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (quiz.Definition, error) {
	header, rows, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return quiz.Definition{}, ErrQuizNotFound
		}
		return quiz.Definition{}, fmt.Errorf("get quiz %s: %w", id, err)
	}

	def := quiz.Definition{
		ID:          header.QuizID,
		Title:       header.Title,
		Description: header.Description,
		Difficulty:  header.Difficulty,
		Questions:   make([]quiz.Question, 0, len(rows)),
	}
	for _, r := range rows {
		def.Questions = append(def.Questions, quiz.Question{
			ID:          r.QuestionID,
			Prompt:      r.Prompt,
			Options:     r.Options,
			Correct:     int(r.CorrectIndex),
			Explanation: r.Explanation,
		})
	}
	if err := def.Validate(); err != nil {
		return quiz.Definition{}, fmt.Errorf("stored quiz %s is invalid: %w", id, err)
	}
	return def, nil
}

// Seed writes defs into Postgres, replacing any existing rows per quiz.
func Seed(ctx context.Context, repo quizRepository, defs []quiz.Definition) error {
	for pos, def := range defs {
		if err := def.Validate(); err != nil {
			return fmt.Errorf("seed quiz %s: %w", def.ID, err)
		}
		header := sqlcgen.UpsertQuizParams{
			QuizID:      def.ID,
			Title:       def.Title,
			Description: def.Description,
			Difficulty:  def.Difficulty,
			Position:    int32(pos),
		}
		questions := make([]sqlcgen.InsertQuizQuestionParams, 0, len(def.Questions))
		for i, q := range def.Questions {
			questions = append(questions, sqlcgen.InsertQuizQuestionParams{
				QuizID:       def.ID,
				QuestionID:   q.ID,
				Position:     int32(i),
				Prompt:       q.Prompt,
				Options:      q.Options,
				CorrectIndex: int32(q.Correct),
				Explanation:  q.Explanation,
			})
		}
		if err := repo.Replace(ctx, header, questions); err != nil {
			return err
		}
	}
	return nil
}
