package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "info")
	require.NoError(t, err)

	log.Named("ingest").Info(context.Background(), "game logs stored",
		Int64("player_id", 2544), String("season", "2024-25"), Int("rows", 71))

	out := buf.String()
	assert.Contains(t, out, "component=ingest")
	assert.Contains(t, out, "player_id=2544")
	assert.Contains(t, out, "season=2024-25")
	assert.Contains(t, out, `msg="game logs stored"`)
}

func TestLoggerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "warn")
	require.NoError(t, err)

	ctx := context.Background()
	log.Debug(ctx, "hidden")
	log.Info(ctx, "hidden")
	log.Warn(ctx, "shown")
	log.Error(ctx, "failed", Error(errors.New("boom")))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "error=boom")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	lvl, err = ParseLevel("warning")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)

	_, err = New(&bytes.Buffer{}, "verbose")
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Named("x").Error(context.Background(), "dropped")
	})
}
