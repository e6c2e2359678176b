package leaderboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	sqlcgen "github.com/milboard/milboard/internal/db/sqlc"
)

type snapshotWriter interface {
	Insert(ctx context.Context, params sqlcgen.InsertLeaderboardSnapshotParams) (sqlcgen.LeaderboardSnapshot, error)
}

// SnapshotWorker periodically persists Redis leaderboards into Postgres.
// Unchanged boards are not written twice in a row.
type SnapshotWorker struct {
	svc      *Service
	repo     snapshotWriter
	logger   zerolog.Logger
	interval time.Duration
	topN     int
	lastHash map[string]string
}

func NewSnapshotWorker(svc *Service, repo snapshotWriter, interval time.Duration, topN int, logger zerolog.Logger) *SnapshotWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if topN <= 0 {
		topN = 50
	}
	return &SnapshotWorker{
		svc:      svc,
		repo:     repo,
		logger:   logger.With().Str("component", "leaderboard_snapshot_worker").Logger(),
		interval: interval,
		topN:     topN,
		lastHash: make(map[string]string),
	}
}

// Run blocks until context cancellation.
func (w *SnapshotWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *SnapshotWorker) tick(ctx context.Context) {
	for _, window := range Windows {
		if _, err := w.snapshotWindow(ctx, window); err != nil {
			w.logger.Warn().Err(err).Str("window", window).Msg("snapshot failed")
		}
	}
}

// snapshotWindow reports whether a row was written.
func (w *SnapshotWorker) snapshotWindow(ctx context.Context, window string) (bool, error) {
	entries, period, err := w.svc.Top(ctx, window, w.topN)
	if err != nil {
		return false, err
	}
	if len(entries) == 0 {
		return false, nil
	}

	data, err := json.Marshal(toWSEntries(entries))
	if err != nil {
		return false, err
	}

	sum := sha256.Sum256(append([]byte(period+"\n"), data...))
	hash := hex.EncodeToString(sum[:])
	if w.lastHash[window] == hash {
		return false, nil
	}

	now := time.Now().UTC()
	if _, err := w.repo.Insert(ctx, sqlcgen.InsertLeaderboardSnapshotParams{
		TimeWindow:  window,
		PeriodKey:   period,
		GeneratedAt: pgtype.Timestamptz{Time: now, Valid: true},
		Entries:     data,
		SourceHash:  hash,
	}); err != nil {
		return false, err
	}
	w.lastHash[window] = hash

	w.logger.Info().
		Str("window", window).
		Str("period", period).
		Int("entries", len(entries)).
		Msg("leaderboard snapshot persisted")
	return true, nil
}
