package leaderboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/milboard/milboard/internal/db/repository"
	sqlcgen "github.com/milboard/milboard/internal/db/sqlc"
	ws "github.com/milboard/milboard/pkg/http/ws"
)

var fixedNow = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis, redis.UniversalClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := NewService(client, zerolog.Nop(), ServiceOptions{TopN: 10})
	svc.now = func() time.Time { return fixedNow }
	return svc, mr, client
}

func TestPeriodKey(t *testing.T) {
	assert.Equal(t, "2026-03-04", PeriodKey(WindowDaily, fixedNow))
	assert.Equal(t, "2026-W10", PeriodKey(WindowWeekly, fixedNow))
	assert.Equal(t, "2026-03", PeriodKey(WindowMonthly, fixedNow))
	assert.Equal(t, "all", PeriodKey(WindowAllTime, fixedNow))

	// ISO week 1 of 2027 starts on 2027-01-04; Jan 1st belongs to 2026-W53.
	assert.Equal(t, "2026-W53", PeriodKey(WindowWeekly, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestRecordResultRanksByCorrectAnswers(t *testing.T) {
	svc, mr, _ := newTestService(t)
	ctx := context.Background()
	sari, budi := uuid.New(), uuid.New()

	require.NoError(t, svc.RecordResult(ctx, RecordRequest{UserID: sari, DisplayName: "Sari", Correct: 3, Total: 3}))
	require.NoError(t, svc.RecordResult(ctx, RecordRequest{UserID: budi, DisplayName: "Budi", Correct: 2, Total: 3}))
	require.NoError(t, svc.RecordResult(ctx, RecordRequest{UserID: budi, DisplayName: "Budi", Correct: 2, Total: 3}))

	for _, window := range Windows {
		entries, period, err := svc.Top(ctx, window, 10)
		require.NoError(t, err)
		assert.Equal(t, PeriodKey(window, fixedNow), period)
		require.Len(t, entries, 2)

		assert.Equal(t, budi, entries[0].UserID)
		assert.Equal(t, 4, entries[0].Points)
		assert.Equal(t, 2, entries[0].Quizzes)
		assert.Equal(t, 0, entries[0].Perfect)
		assert.InDelta(t, 4.0/6.0, entries[0].Accuracy, 0.0001)

		assert.Equal(t, "Sari", entries[1].DisplayName)
		assert.Equal(t, 1, entries[1].Perfect)
	}

	assert.True(t, mr.Exists("lb:daily:2026-03-04"))
	assert.Greater(t, mr.TTL("lb:daily:2026-03-04"), time.Duration(0))
	assert.Equal(t, time.Duration(0), mr.TTL("lb:all_time:all"))
}

func TestRecordResultIgnoresEmptyQuiz(t *testing.T) {
	svc, mr, _ := newTestService(t)
	require.NoError(t, svc.RecordResult(context.Background(), RecordRequest{UserID: uuid.New(), Total: 0}))
	assert.False(t, mr.Exists("lb:all_time:all"))
}

func TestTopUnknownWindow(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, _, err := svc.Top(context.Background(), "yearly", 5)
	assert.ErrorIs(t, err, ErrUnknownWindow)
}

func TestPeriodsRollOver(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.RecordResult(ctx, RecordRequest{UserID: uuid.New(), Correct: 1, Total: 1}))

	svc.now = func() time.Time { return fixedNow.Add(24 * time.Hour) }
	daily, _, err := svc.Top(ctx, WindowDaily, 10)
	require.NoError(t, err)
	assert.Empty(t, daily)

	weekly, _, err := svc.Top(ctx, WindowWeekly, 10)
	require.NoError(t, err)
	assert.Len(t, weekly, 1)
}

func TestStandingOf(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	sari, budi := uuid.New(), uuid.New()
	require.NoError(t, svc.RecordResult(ctx, RecordRequest{UserID: sari, Correct: 1, Total: 3}))
	require.NoError(t, svc.RecordResult(ctx, RecordRequest{UserID: budi, Correct: 3, Total: 3}))

	standing, err := svc.StandingOf(ctx, sari)
	require.NoError(t, err)
	require.Len(t, standing, len(Windows))
	assert.Equal(t, Standing{Window: WindowDaily, Rank: 2, Points: 1}, standing[0])

	none, err := svc.StandingOf(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

type recordingHub struct {
	mu   sync.Mutex
	msgs []ws.Message
}

func (h *recordingHub) BroadcastAll(msg ws.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, msg)
	return nil
}

func (h *recordingHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.msgs)
}

func TestBroadcasterForwardsPublishedUpdates(t *testing.T) {
	svc, _, client := newTestService(t)
	hub := &recordingHub{}
	b := NewBroadcaster(client, hub, svc.Channel(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	// Publishes that race the subscription are retried until one lands.
	require.Eventually(t, func() bool {
		_ = svc.RecordResult(context.Background(), RecordRequest{UserID: uuid.New(), DisplayName: "Sari", Correct: 2, Total: 2})
		return hub.count() > 0
	}, 2*time.Second, 50*time.Millisecond)

	hub.mu.Lock()
	msg := hub.msgs[0]
	hub.mu.Unlock()
	assert.Equal(t, ws.TypeLeaderboardUpdate, msg.Type)

	var payload ws.LeaderboardUpdatePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.True(t, ValidWindow(payload.Window))
	assert.NotEmpty(t, payload.Top)

	cancel()
	<-done
}

type mockSnapshots struct {
	mock.Mock
}

func (m *mockSnapshots) Insert(ctx context.Context, params sqlcgen.InsertLeaderboardSnapshotParams) (sqlcgen.LeaderboardSnapshot, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(sqlcgen.LeaderboardSnapshot), args.Error(1)
}

func (m *mockSnapshots) Latest(ctx context.Context, window string) (sqlcgen.LeaderboardSnapshot, error) {
	args := m.Called(ctx, window)
	return args.Get(0).(sqlcgen.LeaderboardSnapshot), args.Error(1)
}

func TestSnapshotWorkerSkipsUnchangedBoards(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	repo := &mockSnapshots{}
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(p sqlcgen.InsertLeaderboardSnapshotParams) bool {
		return p.TimeWindow == WindowDaily && p.PeriodKey == "2026-03-04" && len(p.SourceHash) == 64
	})).Return(sqlcgen.LeaderboardSnapshot{}, nil)

	w := NewSnapshotWorker(svc, repo, time.Minute, 10, zerolog.Nop())

	wrote, err := w.snapshotWindow(ctx, WindowDaily)
	require.NoError(t, err)
	assert.False(t, wrote)

	require.NoError(t, svc.RecordResult(ctx, RecordRequest{UserID: uuid.New(), Correct: 1, Total: 2}))
	wrote, err = w.snapshotWindow(ctx, WindowDaily)
	require.NoError(t, err)
	assert.True(t, wrote)

	wrote, err = w.snapshotWindow(ctx, WindowDaily)
	require.NoError(t, err)
	assert.False(t, wrote)
	repo.AssertNumberOfCalls(t, "Insert", 1)
}

func TestHTTPServesRedisThenSnapshot(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	snaps := &mockSnapshots{}
	entries, _ := json.Marshal([]ws.LeaderboardEntry{{Rank: 1, UserID: uuid.NewString(), DisplayName: "Arsip", Points: 9}})
	snaps.On("Latest", mock.Anything, WindowMonthly).Return(sqlcgen.LeaderboardSnapshot{PeriodKey: "2026-02", Entries: entries}, nil)
	snaps.On("Latest", mock.Anything, WindowDaily).Return(sqlcgen.LeaderboardSnapshot{}, repository.ErrNotFound)

	h := NewHTTPHandler(svc, snaps, zerolog.Nop())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/leaderboards/{window}", h.HandleGet)

	get := func(path string) (*httptest.ResponseRecorder, Response) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		var resp Response
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		return rec, resp
	}

	rec, resp := get("/v1/leaderboards/monthly")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "snapshot", resp.Source)
	assert.Equal(t, "2026-02", resp.PeriodKey)
	assert.Equal(t, "Arsip", resp.Top[0].DisplayName)

	rec, resp = get("/v1/leaderboards/daily")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "redis", resp.Source)
	assert.Empty(t, resp.Top)

	require.NoError(t, svc.RecordResult(ctx, RecordRequest{UserID: uuid.New(), DisplayName: "Sari", Correct: 3, Total: 3}))
	_, resp = get("/v1/leaderboards/monthly?limit=5")
	assert.Equal(t, "redis", resp.Source)
	assert.Equal(t, "2026-03", resp.PeriodKey)
	assert.Equal(t, 3, resp.Top[0].Points)

	rec, _ = get("/v1/leaderboards/yearly")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
