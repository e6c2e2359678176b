package results

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/milboard/milboard/internal/db/repository"
	sqlcgen "github.com/milboard/milboard/internal/db/sqlc"
	"github.com/milboard/milboard/internal/leaderboard"
	"github.com/milboard/milboard/internal/metrics"
	"github.com/milboard/milboard/internal/quiz/scoring"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type resultRepository interface {
	Insert(ctx context.Context, params sqlcgen.InsertQuizResultParams) (sqlcgen.QuizResult, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]sqlcgen.QuizResult, error)
	BestByUser(ctx context.Context, userID uuid.UUID) ([]sqlcgen.ListBestResultsByUserRow, error)
}

type leaderboardRecorder interface {
	RecordResult(ctx context.Context, req leaderboard.RecordRequest) error
}

// Result is one stored quiz attempt.
type Result struct {
	ID          uuid.UUID    `json:"result_id"`
	QuizID      string       `json:"quiz_id"`
	Correct     int          `json:"correct"`
	Total       int          `json:"total"`
	Percentage  int          `json:"percentage"`
	Band        scoring.Band `json:"band"`
	CompletedAt time.Time    `json:"completed_at"`
}

// Best is a user's best attempt at one quiz.
type Best struct {
	QuizID      string    `json:"quiz_id"`
	Correct     int       `json:"correct"`
	Total       int       `json:"total"`
	Percentage  int       `json:"percentage"`
	Attempts    int       `json:"attempts"`
	CompletedAt time.Time `json:"completed_at"`
}

// Service persists completed quiz passes and feeds the leaderboard.
type Service struct {
	repo        resultRepository
	leaderboard leaderboardRecorder
	logger      zerolog.Logger
}

func NewService(repo resultRepository, lb leaderboardRecorder, logger zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		leaderboard: lb,
		logger:      logger.With().Str("component", "results").Logger(),
	}
}

// Record stores one completed pass. A leaderboard failure is logged and does
// not fail the call since the attempt row is already durable.
func (s *Service) Record(ctx context.Context, userID uuid.UUID, displayName, quizID string, report scoring.Report) (Result, error) {
	row, err := s.repo.Insert(ctx, sqlcgen.InsertQuizResultParams{
		UserID:     repository.PGUUID(userID),
		QuizID:     quizID,
		Correct:    int32(report.Correct),
		Total:      int32(report.Total),
		Percentage: int32(report.Percentage),
		Band:       string(report.Band),
	})
	if err != nil {
		return Result{}, fmt.Errorf("insert result: %w", err)
	}

	metrics.QuizScore.WithLabelValues(quizID).Observe(float64(report.Percentage))

	if s.leaderboard != nil {
		if err := s.leaderboard.RecordResult(ctx, leaderboard.RecordRequest{
			UserID:      userID,
			DisplayName: displayName,
			QuizID:      quizID,
			Correct:     report.Correct,
			Total:       report.Total,
		}); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("leaderboard update failed")
		}
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Str("quiz_id", quizID).
		Int("percentage", report.Percentage).
		Str("band", string(report.Band)).
		Msg("quiz result recorded")
	return toResult(row), nil
}

// ListForUser returns recent attempts, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]Result, error) {
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}
	rows, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	out := make([]Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, toResult(row))
	}
	return out, nil
}

// BestForUser returns the best attempt per quiz.
func (s *Service) BestForUser(ctx context.Context, userID uuid.UUID) ([]Best, error) {
	rows, err := s.repo.BestByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("best results: %w", err)
	}
	out := make([]Best, 0, len(rows))
	for _, row := range rows {
		out = append(out, Best{
			QuizID:      row.QuizID,
			Correct:     int(row.Correct),
			Total:       int(row.Total),
			Percentage:  int(row.Percentage),
			Attempts:    int(row.Attempts),
			CompletedAt: row.CompletedAt.Time,
		})
	}
	return out, nil
}

func toResult(row sqlcgen.QuizResult) Result {
	return Result{
		ID:          repository.FromPGUUID(row.ResultID),
		QuizID:      row.QuizID,
		Correct:     int(row.Correct),
		Total:       int(row.Total),
		Percentage:  int(row.Percentage),
		Band:        scoring.Band(row.Band),
		CompletedAt: row.CompletedAt.Time,
	}
}
