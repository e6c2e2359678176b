package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	ws "github.com/milboard/milboard/pkg/http/ws"
)

// ErrUnknownWindow is returned for a window outside Windows.
var ErrUnknownWindow = errors.New("unknown leaderboard window")

// Entry represents a leaderboard record sent to clients.
type Entry struct {
	UserID        uuid.UUID `json:"user_id"`
	DisplayName   string    `json:"display_name"`
	Points        int       `json:"points"`
	Quizzes       int       `json:"quizzes"`
	Perfect       int       `json:"perfect"`
	Accuracy      float64   `json:"accuracy"`
	CorrectTotal  int       `json:"-"`
	QuestionTotal int       `json:"-"`
}

// Standing is one user's position in a window.
type Standing struct {
	Window string `json:"window"`
	Rank   int    `json:"rank"`
	Points int    `json:"points"`
}

// RecordRequest captures one completed quiz.
type RecordRequest struct {
	UserID      uuid.UUID
	DisplayName string
	QuizID      string
	Correct     int
	Total       int
}

// ServiceOptions configures leaderboard service behavior.
type ServiceOptions struct {
	TopN          int
	PubSubChannel string
	KeyPrefix     string
	BroadcastTopN int
}

// Service manages leaderboard state in Redis and emits updates over Pub/Sub.
type Service struct {
	redis         redis.UniversalClient
	logger        zerolog.Logger
	topN          int
	broadcastTopN int
	pubsubChannel string
	prefix        string
	now           func() time.Time
}

// NewService constructs a leaderboard service instance.
func NewService(client redis.UniversalClient, logger zerolog.Logger, opts ServiceOptions) *Service {
	if opts.TopN <= 0 {
		opts.TopN = 50
	}
	if opts.BroadcastTopN <= 0 {
		opts.BroadcastTopN = 10
	}
	if opts.PubSubChannel == "" {
		opts.PubSubChannel = "lb:updates"
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "lb"
	}

	return &Service{
		redis:         client,
		logger:        logger.With().Str("component", "leaderboard").Logger(),
		topN:          opts.TopN,
		broadcastTopN: opts.BroadcastTopN,
		pubsubChannel: opts.PubSubChannel,
		prefix:        opts.KeyPrefix,
		now:           time.Now,
	}
}

// Channel is the Pub/Sub channel updates are published on.
func (s *Service) Channel() string { return s.pubsubChannel }

// RecordResult adds a completed quiz to every window's current period.
// Points equal the number of correct answers.
func (s *Service) RecordResult(ctx context.Context, req RecordRequest) error {
	if req.Total <= 0 {
		return nil
	}
	now := s.now()
	perfect := 0
	if req.Correct == req.Total {
		perfect = 1
	}

	pipe := s.redis.TxPipeline()
	for _, window := range Windows {
		period := PeriodKey(window, now)
		zKey := s.leaderboardKey(window, period)
		metaKey := s.metaKey(window, period, req.UserID)

		pipe.ZIncrBy(ctx, zKey, float64(req.Correct), req.UserID.String())
		pipe.HIncrBy(ctx, metaKey, "quizzes", 1)
		pipe.HIncrBy(ctx, metaKey, "perfect", int64(perfect))
		pipe.HIncrBy(ctx, metaKey, "correct", int64(req.Correct))
		pipe.HIncrBy(ctx, metaKey, "questions", int64(req.Total))
		pipe.HSet(ctx, metaKey, "display_name", req.DisplayName)
		if ttl := retention(window); ttl > 0 {
			pipe.Expire(ctx, zKey, ttl)
			pipe.Expire(ctx, metaKey, ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("update leaderboard: %w", err)
	}

	s.publishUpdates(ctx, now)
	return nil
}

// Top retrieves the top entries of a window's current period.
func (s *Service) Top(ctx context.Context, window string, limit int) ([]Entry, string, error) {
	if !ValidWindow(window) {
		return nil, "", ErrUnknownWindow
	}
	if limit <= 0 || limit > s.topN {
		limit = s.topN
	}
	period := PeriodKey(window, s.now())
	entries, err := s.topForPeriod(ctx, window, period, limit)
	return entries, period, err
}

func (s *Service) topForPeriod(ctx context.Context, window, period string, limit int) ([]Entry, error) {
	results, err := s.redis.ZRevRangeWithScores(ctx, s.leaderboardKey(window, period), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(results))
	for _, z := range results {
		member, _ := z.Member.(string)
		userID, err := uuid.Parse(member)
		if err != nil {
			s.logger.Warn().Str("member", member).Msg("skipping malformed leaderboard member")
			continue
		}
		entry, err := s.readMeta(ctx, window, period, userID)
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to read leaderboard metadata")
			continue
		}
		entry.Points = int(z.Score)
		entries = append(entries, entry)
	}
	return entries, nil
}

// StandingOf returns the user's 1-based rank in each window. Windows where
// the user has no points are omitted.
func (s *Service) StandingOf(ctx context.Context, userID uuid.UUID) ([]Standing, error) {
	now := s.now()
	out := make([]Standing, 0, len(Windows))
	for _, window := range Windows {
		zKey := s.leaderboardKey(window, PeriodKey(window, now))
		rank, err := s.redis.ZRevRank(ctx, zKey, userID.String()).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("rank %s: %w", window, err)
		}
		score, err := s.redis.ZScore(ctx, zKey, userID.String()).Result()
		if err != nil {
			return nil, fmt.Errorf("score %s: %w", window, err)
		}
		out = append(out, Standing{Window: window, Rank: int(rank) + 1, Points: int(score)})
	}
	return out, nil
}

func (s *Service) publishUpdates(ctx context.Context, now time.Time) {
	for _, window := range Windows {
		period := PeriodKey(window, now)
		entries, err := s.topForPeriod(ctx, window, period, s.broadcastTopN)
		if err != nil {
			s.logger.Warn().Err(err).Str("window", window).Msg("failed to collect leaderboard update")
			continue
		}
		if len(entries) == 0 {
			continue
		}

		data, err := json.Marshal(ws.LeaderboardUpdatePayload{
			Window:    window,
			PeriodKey: period,
			Top:       toWSEntries(entries),
		})
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to marshal leaderboard update")
			continue
		}
		if err := s.redis.Publish(ctx, s.pubsubChannel, data).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish leaderboard update")
		}
	}
}

func (s *Service) readMeta(ctx context.Context, window, period string, userID uuid.UUID) (Entry, error) {
	data, err := s.redis.HGetAll(ctx, s.metaKey(window, period, userID)).Result()
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		UserID:        userID,
		DisplayName:   data["display_name"],
		Quizzes:       parseInt(data["quizzes"]),
		Perfect:       parseInt(data["perfect"]),
		CorrectTotal:  parseInt(data["correct"]),
		QuestionTotal: parseInt(data["questions"]),
	}
	if entry.QuestionTotal > 0 {
		entry.Accuracy = float64(entry.CorrectTotal) / float64(entry.QuestionTotal)
	}
	return entry, nil
}

func (s *Service) leaderboardKey(window, period string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, window, period)
}

func (s *Service) metaKey(window, period string, userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s:meta:%s", s.prefix, window, period, userID.String())
}

func toWSEntries(entries []Entry) []ws.LeaderboardEntry {
	result := make([]ws.LeaderboardEntry, len(entries))
	for i, e := range entries {
		result[i] = ws.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      e.UserID.String(),
			DisplayName: e.DisplayName,
			Points:      e.Points,
			Quizzes:     e.Quizzes,
			Perfect:     e.Perfect,
			Accuracy:    e.Accuracy,
		}
	}
	return result
}

func parseInt(val string) int {
	if val == "" {
		return 0
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return i
}
