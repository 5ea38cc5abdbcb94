// Package export writes a player's season data to Parquet files using
// github.com/parquet-go/parquet-go.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/pable/hoopstats/internal/model"
)

// RollingAverageRow is one row of a rolling averages export.
type RollingAverageRow struct {
	PlayerID   int64   `parquet:"player_id,snappy"`
	Season     string  `parquet:"season,snappy,dict"`
	GameDate   string  `parquet:"game_date,snappy"`
	WindowSize int32   `parquet:"window_size,snappy"`
	PtsAvg     float64 `parquet:"pts_avg,snappy"`
	RebAvg     float64 `parquet:"reb_avg,snappy"`
	AstAvg     float64 `parquet:"ast_avg,snappy"`

	// TSPctAvg is null when no game in the window had a defined efficiency.
	TSPctAvg *float64 `parquet:"ts_pct_avg,optional,snappy"`

	PlusMinusAvg float64 `parquet:"plus_minus_avg,snappy"`
}

// GameLogRow is one row of a game logs export.
type GameLogRow struct {
	PlayerID  int64    `parquet:"player_id,snappy"`
	GameID    string   `parquet:"game_id,snappy"`
	GameDate  string   `parquet:"game_date,snappy"`
	Season    string   `parquet:"season,snappy,dict"`
	Matchup   string   `parquet:"matchup,snappy"`
	WL        string   `parquet:"wl,snappy,dict"`
	Minutes   float64  `parquet:"min,snappy"`
	Pts       float64  `parquet:"pts,snappy"`
	Reb       float64  `parquet:"reb,snappy"`
	Ast       float64  `parquet:"ast,snappy"`
	Stl       float64  `parquet:"stl,snappy"`
	Blk       float64  `parquet:"blk,snappy"`
	Tov       float64  `parquet:"tov,snappy"`
	FGM       float64  `parquet:"fgm,snappy"`
	FGA       float64  `parquet:"fga,snappy"`
	FGPct     *float64 `parquet:"fg_pct,optional,snappy"`
	FG3M      float64  `parquet:"fg3m,snappy"`
	FG3A      float64  `parquet:"fg3a,snappy"`
	FG3Pct    *float64 `parquet:"fg3_pct,optional,snappy"`
	FTM       float64  `parquet:"ftm,snappy"`
	FTA       float64  `parquet:"fta,snappy"`
	FTPct     *float64 `parquet:"ft_pct,optional,snappy"`
	PlusMinus float64  `parquet:"plus_minus,snappy"`
}

// ConvertRollingAverages maps stored rows onto the export schema.
func ConvertRollingAverages(rows []model.RollingAverage) []RollingAverageRow {
	out := make([]RollingAverageRow, len(rows))
	for i, r := range rows {
		out[i] = RollingAverageRow{
			PlayerID:     r.PlayerID,
			Season:       r.Season,
			GameDate:     r.GameDate,
			WindowSize:   int32(r.WindowSize),
			PtsAvg:       r.PointsAvg,
			RebAvg:       r.ReboundsAvg,
			AstAvg:       r.AssistsAvg,
			TSPctAvg:     r.EfficiencyAvg,
			PlusMinusAvg: r.PlusMinusAvg,
		}
	}
	return out
}

// ConvertGameLogs maps stored game logs onto the export schema.
func ConvertGameLogs(logs []model.GameLog) []GameLogRow {
	out := make([]GameLogRow, len(logs))
	for i, g := range logs {
		out[i] = GameLogRow{
			PlayerID: g.PlayerID, GameID: g.GameID, GameDate: g.GameDate, Season: g.Season,
			Matchup: g.Matchup, WL: g.WL, Minutes: g.Minutes,
			Pts: g.Points, Reb: g.Rebounds, Ast: g.Assists, Stl: g.Steals, Blk: g.Blocks, Tov: g.Turnovers,
			FGM: g.FGM, FGA: g.FGA, FGPct: g.FGPct,
			FG3M: g.FG3M, FG3A: g.FG3A, FG3Pct: g.FG3Pct,
			FTM: g.FTM, FTA: g.FTA, FTPct: g.FTPct,
			PlusMinus: g.PlusMinus,
		}
	}
	return out
}

// WriteRollingAverages writes rows to a Parquet file at path.
func WriteRollingAverages(rows []model.RollingAverage, path string) error {
	return write(ConvertRollingAverages(rows), path)
}

// WriteGameLogs writes logs to a Parquet file at path.
func WriteGameLogs(logs []model.GameLog, path string) error {
	return write(ConvertGameLogs(logs), path)
}

func write[T any](data []T, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// FileName is the conventional export file name for a player, season and table.
func FileName(playerID int64, season, table string) string {
	return fmt.Sprintf("%d_%s_%s.parquet", playerID, season, table)
}
