package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := IntoContext(context.Background(), logger)
	got := FromContext(ctx)
	got.Info().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
}

func TestFromContextWithoutLogger(t *testing.T) {
	logger := FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestNewWithOptionsWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")

	logger := NewWithOptions("milboard", "test", Options{Level: "debug", File: path, MaxSizeMB: 1})
	logger.Debug().Str("quiz_id", "quiz-1").Msg("session started")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"quiz_id":"quiz-1"`)
	assert.Contains(t, string(data), `"app":"milboard"`)
}
