package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milboard/milboard/internal/auth"
	"github.com/milboard/milboard/internal/leaderboard"
	"github.com/milboard/milboard/internal/learning"
	"github.com/milboard/milboard/internal/results"
)

type stubUsers struct{}

func (stubUsers) GetUser(_ context.Context, id uuid.UUID) (*auth.User, error) {
	return &auth.User{ID: id, DisplayName: "Sari"}, nil
}

type stubModules struct {
	progress map[string]learning.Progress
}

var catalog = []learning.Module{
	{ID: "module-1", Title: "Intro", Featured: true},
	{ID: "module-2", Title: "Citizenship", Featured: true},
	{ID: "module-3", Title: "Fake News"},
	{ID: "module-4", Title: "Privacy"},
}

func (stubModules) Featured() []learning.Module { return catalog[:2] }

func (stubModules) Lookup(id string) (learning.Module, bool) {
	for _, m := range catalog {
		if m.ID == id {
			return m, true
		}
	}
	return learning.Module{}, false
}

func (s stubModules) ProgressFor(context.Context, uuid.UUID) (map[string]learning.Progress, error) {
	return s.progress, nil
}

type stubResults struct{}

func (stubResults) BestForUser(context.Context, uuid.UUID) ([]results.Best, error) {
	return []results.Best{{QuizID: "quiz-1", Percentage: 67}}, nil
}

type stubStandings struct{ err error }

func (s stubStandings) StandingOf(context.Context, uuid.UUID) ([]leaderboard.Standing, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []leaderboard.Standing{{Window: leaderboard.WindowDaily, Rank: 3, Points: 5}}, nil
}

func TestOverallProgress(t *testing.T) {
	assert.Equal(t, 0, OverallProgress(nil))
	assert.Equal(t, 53, OverallProgress([]int{75, 30}))
	assert.Equal(t, 50, OverallProgress([]int{33, 66}))
	assert.Equal(t, 100, OverallProgress([]int{100, 100}))
}

func TestBuild(t *testing.T) {
	modules := stubModules{progress: map[string]learning.Progress{
		"module-1": {ModuleID: "module-1", Percent: 75},
		"module-3": {ModuleID: "module-3", Percent: 40},
		"module-4": {ModuleID: "module-4", Percent: 100},
		"module-9": {ModuleID: "module-9", Percent: 10},
	}}
	svc := NewService(stubUsers{}, modules, stubResults{}, stubStandings{}, zerolog.Nop())

	d, err := svc.Build(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "Sari", d.DisplayName)
	assert.Equal(t, 38, d.OverallProgress)
	assert.Equal(t, []ModuleProgress{
		{ModuleID: "module-1", Title: "Intro", Progress: 75},
		{ModuleID: "module-2", Title: "Citizenship", Progress: 0},
	}, d.Featured)
	assert.Equal(t, []ModuleProgress{
		{ModuleID: "module-1", Title: "Intro", Progress: 75},
		{ModuleID: "module-3", Title: "Fake News", Progress: 40},
	}, d.InProgress)
	assert.Len(t, d.QuizScores, 1)
	assert.Len(t, d.Standings, 1)
}

func TestBuildToleratesStandingFailure(t *testing.T) {
	svc := NewService(stubUsers{}, stubModules{}, stubResults{}, stubStandings{err: errors.New("redis down")}, zerolog.Nop())

	d, err := svc.Build(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, d.Standings)
	assert.Equal(t, 0, d.OverallProgress)
}
