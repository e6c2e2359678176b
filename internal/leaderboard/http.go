package leaderboard

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	sqlcgen "github.com/milboard/milboard/internal/db/sqlc"
	httperrors "github.com/milboard/milboard/pkg/http/errors"
	ws "github.com/milboard/milboard/pkg/http/ws"
)

type snapshotReader interface {
	Latest(ctx context.Context, window string) (sqlcgen.LeaderboardSnapshot, error)
}

// HTTPHandler exposes REST endpoints for leaderboard queries.
type HTTPHandler struct {
	svc       *Service
	snapshots snapshotReader
	logger    zerolog.Logger
}

// NewHTTPHandler constructs a leaderboard HTTP handler.
func NewHTTPHandler(svc *Service, snapshots snapshotReader, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:       svc,
		snapshots: snapshots,
		logger:    logger.With().Str("component", "leaderboard_http").Logger(),
	}
}

// Response is the body of GET /v1/leaderboards/{window}.
type Response struct {
	Window      string                `json:"window"`
	PeriodKey   string                `json:"period_key"`
	Top         []ws.LeaderboardEntry `json:"top"`
	Source      string                `json:"source"`
	RetrievedAt string                `json:"retrieved_at"`
}

// HandleGet handles GET /v1/leaderboards/{window}?limit=10. When Redis is
// empty or unavailable the newest Postgres snapshot is served instead.
func (h *HTTPHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	window := r.PathValue("window")
	if !ValidWindow(window) {
		httperrors.RespondNotFound(w, httperrors.ErrCodeUnknownWindow, "unknown leaderboard window")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	ctx := r.Context()
	resp := Response{Window: window, Source: "redis", Top: []ws.LeaderboardEntry{}}

	entries, period, err := h.svc.Top(ctx, window, limit)
	if err != nil {
		h.logger.Warn().Err(err).Str("window", window).Msg("redis leaderboard fetch failed")
	}
	resp.PeriodKey = period
	if len(entries) > 0 {
		resp.Top = toWSEntries(entries)
	} else if snap, ok := h.snapshotFallback(ctx, window, limit); ok {
		resp.Source = "snapshot"
		resp.PeriodKey = snap.PeriodKey
		resp.Top = snap.Top
	} else if err != nil {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeLeaderboardFetchFailed, "leaderboard unavailable")
		return
	}

	resp.RetrievedAt = time.Now().UTC().Format(time.RFC3339)
	httperrors.RespondJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) snapshotFallback(ctx context.Context, window string, limit int) (ws.LeaderboardUpdatePayload, bool) {
	if h.snapshots == nil {
		return ws.LeaderboardUpdatePayload{}, false
	}
	row, err := h.snapshots.Latest(ctx, window)
	if err != nil {
		h.logger.Debug().Err(err).Str("window", window).Msg("no snapshot available")
		return ws.LeaderboardUpdatePayload{}, false
	}

	var entries []ws.LeaderboardEntry
	if err := json.Unmarshal(row.Entries, &entries); err != nil {
		h.logger.Warn().Err(err).Msg("snapshot payload decode failed")
		return ws.LeaderboardUpdatePayload{}, false
	}
	if len(entries) == 0 {
		return ws.LeaderboardUpdatePayload{}, false
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return ws.LeaderboardUpdatePayload{Window: window, PeriodKey: row.PeriodKey, Top: entries}, true
}
