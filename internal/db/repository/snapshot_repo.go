package repository

import (
	"context"

	sqlcgen "github.com/milboard/milboard/internal/db/sqlc"
)

type snapshotStore interface {
	InsertLeaderboardSnapshot(ctx context.Context, arg sqlcgen.InsertLeaderboardSnapshotParams) (sqlcgen.LeaderboardSnapshot, error)
	ListRecentSnapshots(ctx context.Context, arg sqlcgen.ListRecentSnapshotsParams) ([]sqlcgen.LeaderboardSnapshot, error)
}

// SnapshotRepository persists leaderboard snapshots for fallback reads.
type SnapshotRepository struct {
	store snapshotStore
}

// NewSnapshotRepository constructs a snapshot repository.
func NewSnapshotRepository(store snapshotStore) *SnapshotRepository {
	return &SnapshotRepository{store: store}
}

// Insert stores one snapshot row.
func (r *SnapshotRepository) Insert(ctx context.Context, params sqlcgen.InsertLeaderboardSnapshotParams) (sqlcgen.LeaderboardSnapshot, error) {
	return r.store.InsertLeaderboardSnapshot(ctx, params)
}

// Latest returns the newest snapshot for a window, or ErrNotFound.
func (r *SnapshotRepository) Latest(ctx context.Context, window string) (sqlcgen.LeaderboardSnapshot, error) {
	rows, err := r.store.ListRecentSnapshots(ctx, sqlcgen.ListRecentSnapshotsParams{
		TimeWindow: window,
		Limit:      1,
	})
	if err != nil {
		return sqlcgen.LeaderboardSnapshot{}, err
	}
	if len(rows) == 0 {
		return sqlcgen.LeaderboardSnapshot{}, ErrNotFound
	}
	return rows[0], nil
}
