package catalog

import (
	"context"
	"io"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/milboard/milboard/internal/quiz"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func sampleDefs() []quiz.Definition {
	return []quiz.Definition{
		{
			ID:         "quiz-1",
			Title:      "Dasar Literasi Media",
			Difficulty: DifficultyBeginner,
			Questions: []quiz.Question{
				{ID: "q1", Prompt: "p1", Options: []string{"a", "b"}, Correct: 1},
				{ID: "q2", Prompt: "p2", Options: []string{"a", "b", "c"}, Correct: 2},
			},
		},
		{
			ID:         "quiz-2",
			Title:      "Kewarganegaraan Digital",
			Difficulty: DifficultyIntermediate,
			Questions: []quiz.Question{
				{ID: "q1", Prompt: "p1", Options: []string{"a", "b"}, Correct: 0},
			},
		},
	}
}

// countingStore wraps a MemoryStore and counts Get calls.
type countingStore struct {
	*MemoryStore
	gets int
}

func (s *countingStore) Get(ctx context.Context, id string) (quiz.Definition, error) {
	s.gets++
	return s.MemoryStore.Get(ctx, id)
}
