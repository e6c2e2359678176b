package dashboard

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/milboard/milboard/internal/auth"
	"github.com/milboard/milboard/internal/leaderboard"
	"github.com/milboard/milboard/internal/learning"
	"github.com/milboard/milboard/internal/results"
)

type moduleSource interface {
	Featured() []learning.Module
	Lookup(id string) (learning.Module, bool)
	ProgressFor(ctx context.Context, userID uuid.UUID) (map[string]learning.Progress, error)
}

type resultSource interface {
	BestForUser(ctx context.Context, userID uuid.UUID) ([]results.Best, error)
}

type userSource interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*auth.User, error)
}

type standingSource interface {
	StandingOf(ctx context.Context, userID uuid.UUID) ([]leaderboard.Standing, error)
}

// ModuleProgress is a module reference with the user's percentage.
type ModuleProgress struct {
	ModuleID string `json:"module_id"`
	Title    string `json:"title"`
	Progress int    `json:"progress"`
}

// Dashboard is the signed-in landing view.
type Dashboard struct {
	DisplayName     string                 `json:"display_name"`
	OverallProgress int                    `json:"overall_progress"`
	Featured        []ModuleProgress       `json:"featured"`
	InProgress      []ModuleProgress       `json:"in_progress"`
	QuizScores      []results.Best         `json:"quiz_scores"`
	Standings       []leaderboard.Standing `json:"standings"`
}

// Service assembles the dashboard from the learning, results and leaderboard services.
type Service struct {
	users     userSource
	modules   moduleSource
	results   resultSource
	standings standingSource
	logger    zerolog.Logger
}

func NewService(users userSource, modules moduleSource, res resultSource, standings standingSource, logger zerolog.Logger) *Service {
	return &Service{
		users:     users,
		modules:   modules,
		results:   res,
		standings: standings,
		logger:    logger.With().Str("component", "dashboard").Logger(),
	}
}

// Build returns the dashboard for one user. Leaderboard standings are
// best-effort and left empty when Redis is unavailable.
func (s *Service) Build(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	progress, err := s.modules.ProgressFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	best, err := s.results.BestForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		DisplayName: user.DisplayName,
		Featured:    []ModuleProgress{},
		InProgress:  []ModuleProgress{},
		QuizScores:  best,
		Standings:   []leaderboard.Standing{},
	}

	featured := s.modules.Featured()
	percents := make([]int, 0, len(featured))
	for _, m := range featured {
		p := progress[m.ID].Percent
		percents = append(percents, p)
		d.Featured = append(d.Featured, ModuleProgress{ModuleID: m.ID, Title: m.Title, Progress: p})
	}
	d.OverallProgress = OverallProgress(percents)

	for id, p := range progress {
		if p.Percent <= 0 || p.Percent >= 100 {
			continue
		}
		m, ok := s.modules.Lookup(id)
		if !ok {
			continue
		}
		d.InProgress = append(d.InProgress, ModuleProgress{ModuleID: id, Title: m.Title, Progress: p.Percent})
	}
	sortByProgress(d.InProgress)

	if s.standings != nil {
		standings, err := s.standings.StandingOf(ctx, userID)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("leaderboard standing unavailable")
		} else {
			d.Standings = standings
		}
	}
	return d, nil
}

// OverallProgress is the mean percentage rounded half up, 0 for no modules.
func OverallProgress(percents []int) int {
	if len(percents) == 0 {
		return 0
	}
	sum := 0
	for _, p := range percents {
		sum += p
	}
	n := len(percents)
	return (2*sum + n) / (2 * n)
}

// sortByProgress orders furthest-along first, then by module id.
func sortByProgress(items []ModuleProgress) {
	slices.SortFunc(items, func(a, b ModuleProgress) int {
		if c := cmp.Compare(b.Progress, a.Progress); c != 0 {
			return c
		}
		return cmp.Compare(a.ModuleID, b.ModuleID)
	})
}
