package export

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/hoopstats/internal/model"
)

func ptr(f float64) *float64 { return &f }

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[T](file)
	defer reader.Close()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestRollingAverageSchema(t *testing.T) {
	schema := parquet.SchemaOf(new(RollingAverageRow))
	names := make([]string, 0, len(schema.Fields()))
	for _, f := range schema.Fields() {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{
		"player_id", "season", "game_date", "window_size",
		"pts_avg", "reb_avg", "ast_avg", "ts_pct_avg", "plus_minus_avg",
	}, names)

	for _, f := range schema.Fields() {
		assert.Equal(t, f.Name() == "ts_pct_avg", f.Optional(), f.Name())
	}
}

func TestWriteRollingAverages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", FileName(2544, "2024-25", "rolling"))
	rows := []model.RollingAverage{
		{PlayerID: 2544, Season: "2024-25", GameDate: "2024-10-22", WindowSize: 5, PointsAvg: 16, EfficiencyAvg: ptr(0.58)},
		{PlayerID: 2544, Season: "2024-25", GameDate: "2024-10-25", WindowSize: 5, PointsAvg: 18.5},
	}
	require.NoError(t, WriteRollingAverages(rows, path))

	got := readAll[RollingAverageRow](t, path)
	require.Len(t, got, 2)
	assert.Equal(t, ConvertRollingAverages(rows), got)
	assert.Nil(t, got[1].TSPctAvg)
	require.NotNil(t, got[0].TSPctAvg)
	assert.InDelta(t, 0.58, *got[0].TSPctAvg, 1e-12)
}

func TestWriteGameLogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.parquet")
	logs := []model.GameLog{
		{PlayerID: 1, GameID: "0022400001", GameDate: "2024-10-22", Season: "2024-25", WL: "W", Points: 21, FGPct: ptr(0.5)},
		{PlayerID: 1, GameID: "0022400002", GameDate: "2024-10-24", Season: "2024-25", WL: "L", Points: 0},
	}
	require.NoError(t, WriteGameLogs(logs, path))

	got := readAll[GameLogRow](t, path)
	require.Len(t, got, 2)
	assert.Equal(t, "0022400002", got[1].GameID)
	assert.Nil(t, got[1].FGPct)
	assert.InDelta(t, 21.0, got[0].Pts, 1e-12)
}

func TestWriteEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteGameLogs(nil, path))
	assert.Empty(t, readAll[GameLogRow](t, path))
}
