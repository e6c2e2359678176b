package learning

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"

	"github.com/milboard/milboard/internal/db/repository"
	sqlcgen "github.com/milboard/milboard/internal/db/sqlc"
)

type progressRepository interface {
	List(ctx context.Context, userID uuid.UUID) ([]sqlcgen.ModuleProgress, error)
	Get(ctx context.Context, userID uuid.UUID, moduleID string) (sqlcgen.ModuleProgress, error)
	Upsert(ctx context.Context, userID uuid.UUID, moduleID string, progress int, completed []string) (sqlcgen.ModuleProgress, error)
}

// Service serves the module catalog and tracks per-user progress.
// Modules are immutable after construction.
type Service struct {
	modules  []Module
	byID     map[string]int
	progress progressRepository
	logger   zerolog.Logger
}

// NewService builds a module service over a loaded module list.
func NewService(modules []Module, progress progressRepository, logger zerolog.Logger) *Service {
	byID := make(map[string]int, len(modules))
	for i, m := range modules {
		byID[m.ID] = i
	}
	return &Service{
		modules:  modules,
		byID:     byID,
		progress: progress,
		logger:   logger.With().Str("component", "learning").Logger(),
	}
}

// Lookup returns a module by id.
func (s *Service) Lookup(id string) (Module, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Module{}, false
	}
	return s.modules[i], true
}

// Featured returns the modules shown on the dashboard, in catalog order.
func (s *Service) Featured() []Module {
	var out []Module
	for _, m := range s.modules {
		if m.Featured {
			out = append(out, m)
		}
	}
	return out
}

// Topics returns every distinct topic in first-seen order.
func (s *Service) Topics() []string {
	seen := make(map[string]struct{})
	var topics []string
	for _, m := range s.modules {
		for _, t := range m.Topics {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			topics = append(topics, t)
		}
	}
	return topics
}

// List returns modules matching the filter. Search is a case-insensitive
// substring match on title, description or any topic. When userID is not
// uuid.Nil the caller's progress is overlaid.
func (s *Service) List(ctx context.Context, userID uuid.UUID, f Filter) ([]Summary, error) {
	if !validCategory(f.Category) {
		return nil, ErrInvalidCategory
	}

	progress, err := s.ProgressFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(f.Search))

	out := make([]Summary, 0, len(s.modules))
	for _, m := range s.modules {
		if f.Category != "" && f.Category != CategoryAll && m.Category != f.Category {
			continue
		}
		if needle != "" && !matches(fold, m, needle) {
			continue
		}
		out = append(out, summarize(m, progress[m.ID]))
	}
	return out, nil
}

func matches(fold cases.Caser, m Module, needle string) bool {
	if strings.Contains(fold.String(m.Title), needle) || strings.Contains(fold.String(m.Description), needle) {
		return true
	}
	for _, t := range m.Topics {
		if strings.Contains(fold.String(t), needle) {
			return true
		}
	}
	return false
}

// Get returns one module with the caller's completion state.
func (s *Service) Get(ctx context.Context, userID uuid.UUID, id string) (*Detail, error) {
	m, ok := s.Lookup(id)
	if !ok {
		return nil, ErrModuleNotFound
	}

	p, err := s.progressOf(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	detail := &Detail{
		Summary:  summarize(m, p),
		Contents: make([]ContentView, 0, len(m.Contents)),
	}
	for _, c := range m.Contents {
		detail.Contents = append(detail.Contents, ContentView{
			Content:   c,
			Completed: slices.Contains(p.CompletedContents, c.ID),
		})
	}
	return detail, nil
}

// ProgressFor returns the user's progress keyed by module id.
func (s *Service) ProgressFor(ctx context.Context, userID uuid.UUID) (map[string]Progress, error) {
	out := make(map[string]Progress)
	if userID == uuid.Nil || s.progress == nil {
		return out, nil
	}
	rows, err := s.progress.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	for _, row := range rows {
		out[row.ModuleID] = toProgress(row)
	}
	return out, nil
}

func (s *Service) progressOf(ctx context.Context, userID uuid.UUID, moduleID string) (Progress, error) {
	if userID == uuid.Nil || s.progress == nil {
		return Progress{ModuleID: moduleID, CompletedContents: []string{}}, nil
	}
	row, err := s.progress.Get(ctx, userID, moduleID)
	if errors.Is(err, repository.ErrNotFound) {
		return Progress{ModuleID: moduleID, CompletedContents: []string{}}, nil
	}
	if err != nil {
		return Progress{}, fmt.Errorf("get progress: %w", err)
	}
	return toProgress(row), nil
}

// UpdateProgress records an explicit progress percentage. The stored value
// never decreases, so the returned progress may be higher than percent.
func (s *Service) UpdateProgress(ctx context.Context, userID uuid.UUID, moduleID string, percent int) (Progress, error) {
	if percent < 0 || percent > 100 {
		return Progress{}, ErrInvalidProgress
	}
	if _, ok := s.Lookup(moduleID); !ok {
		return Progress{}, ErrModuleNotFound
	}

	current, err := s.progressOf(ctx, userID, moduleID)
	if err != nil {
		return Progress{}, err
	}

	row, err := s.progress.Upsert(ctx, userID, moduleID, percent, current.CompletedContents)
	if err != nil {
		return Progress{}, fmt.Errorf("save progress: %w", err)
	}
	return toProgress(row), nil
}

// CompleteContent marks one content item read and recomputes progress as
// completed/total contents.
func (s *Service) CompleteContent(ctx context.Context, userID uuid.UUID, moduleID, contentID string) (Progress, error) {
	m, ok := s.Lookup(moduleID)
	if !ok {
		return Progress{}, ErrModuleNotFound
	}
	if !slices.ContainsFunc(m.Contents, func(c Content) bool { return c.ID == contentID }) {
		return Progress{}, ErrContentNotFound
	}

	current, err := s.progressOf(ctx, userID, moduleID)
	if err != nil {
		return Progress{}, err
	}

	completed := current.CompletedContents
	if !slices.Contains(completed, contentID) {
		completed = append(slices.Clone(completed), contentID)
	}
	percent := ContentPercent(len(completed), len(m.Contents))

	row, err := s.progress.Upsert(ctx, userID, moduleID, percent, completed)
	if err != nil {
		return Progress{}, fmt.Errorf("save progress: %w", err)
	}

	s.logger.Debug().
		Str("user_id", userID.String()).
		Str("module_id", moduleID).
		Str("content_id", contentID).
		Int("progress", int(row.Progress)).
		Msg("content completed")
	return toProgress(row), nil
}

// ContentPercent is completed*100/total rounded down, capped at 100.
func ContentPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return min(completed*100/total, 100)
}

func toProgress(row sqlcgen.ModuleProgress) Progress {
	completed := row.CompletedContents
	if completed == nil {
		completed = []string{}
	}
	return Progress{
		ModuleID:          row.ModuleID,
		Percent:           int(row.Progress),
		CompletedContents: completed,
	}
}
