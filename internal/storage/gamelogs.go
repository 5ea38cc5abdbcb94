package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pable/hoopstats/internal/model"
)

var gameLogCols = []string{
	"player_id", "game_id", "game_date", "season", "matchup", "wl", "minutes",
	"pts", "reb", "ast", "stl", "blk", "tov",
	"fgm", "fga", "fg_pct", "fg3m", "fg3a", "fg3_pct", "ftm", "fta", "ft_pct",
	"plus_minus",
}

const gameLogSelect = `
	SELECT player_id, game_id, game_date, season, matchup, wl, minutes,
	       pts, reb, ast, stl, blk, tov,
	       fgm, fga, fg_pct, fg3m, fg3a, fg3_pct, ftm, fta, ft_pct,
	       plus_minus
	FROM player_game_logs`

// UpsertGameLogs inserts or updates game logs keyed by (player_id, game_id).
// Every stat column is overwritten on conflict.
func (db *DB) UpsertGameLogs(ctx context.Context, logs []model.GameLog) error {
	query := db.upsertSQL("player_game_logs", gameLogCols, []string{"player_id", "game_id"})
	return db.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, g := range logs {
			_, err := stmt.ExecContext(ctx,
				g.PlayerID, g.GameID, g.GameDate, g.Season, g.Matchup, g.WL, g.Minutes,
				g.Points, g.Rebounds, g.Assists, g.Steals, g.Blocks, g.Turnovers,
				g.FGM, g.FGA, nullFloat(g.FGPct), g.FG3M, g.FG3A, nullFloat(g.FG3Pct),
				g.FTM, g.FTA, nullFloat(g.FTPct),
				g.PlusMinus,
			)
			if err != nil {
				return fmt.Errorf("upsert game log %d/%s: %w", g.PlayerID, g.GameID, err)
			}
		}
		return nil
	})
}

// GameLogs returns a player's most recent games in a season, newest first.
// lastN <= 0 returns the whole season.
func (db *DB) GameLogs(ctx context.Context, playerID int64, season string, lastN int) ([]model.GameLog, error) {
	query := gameLogSelect + ` WHERE player_id = ? AND season = ? ORDER BY game_date DESC, game_id DESC`
	args := []any{playerID, season}
	if lastN > 0 {
		query += ` LIMIT ?`
		args = append(args, lastN)
	}
	return db.queryGameLogs(ctx, query, args...)
}

// SeasonGameLogs returns every game of a player's season in ascending date order.
func (db *DB) SeasonGameLogs(ctx context.Context, playerID int64, season string) ([]model.GameLog, error) {
	return db.queryGameLogs(ctx,
		gameLogSelect+` WHERE player_id = ? AND season = ? ORDER BY game_date ASC, game_id ASC`,
		playerID, season)
}

// GameRecords returns the rolling-aggregator input for a player's season:
// ascending by date with at most one record per date. When two games share
// a date the one with the greater game_id is kept.
func (db *DB) GameRecords(ctx context.Context, playerID int64, season string) ([]model.GameRecord, error) {
	logs, err := db.SeasonGameLogs(ctx, playerID, season)
	if err != nil {
		return nil, err
	}
	out := make([]model.GameRecord, 0, len(logs))
	for _, g := range logs {
		if n := len(out); n > 0 && out[n-1].GameDate == g.GameDate {
			out[n-1] = g.Record()
			continue
		}
		out = append(out, g.Record())
	}
	return out, nil
}

// PlayersWithGameLogs returns the ids of players that have at least one game in season.
func (db *DB) PlayersWithGameLogs(ctx context.Context, season string) ([]int64, error) {
	rows, err := db.conn.QueryContext(ctx,
		db.rebind(`SELECT DISTINCT player_id FROM player_game_logs WHERE season = ? ORDER BY player_id`), season)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (db *DB) queryGameLogs(ctx context.Context, query string, args ...any) ([]model.GameLog, error) {
	rows, err := db.conn.QueryContext(ctx, db.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GameLog
	for rows.Next() {
		var g model.GameLog
		var fgPct, fg3Pct, ftPct sql.NullFloat64
		err := rows.Scan(
			&g.PlayerID, &g.GameID, &g.GameDate, &g.Season, &g.Matchup, &g.WL, &g.Minutes,
			&g.Points, &g.Rebounds, &g.Assists, &g.Steals, &g.Blocks, &g.Turnovers,
			&g.FGM, &g.FGA, &fgPct, &g.FG3M, &g.FG3A, &fg3Pct, &g.FTM, &g.FTA, &ftPct,
			&g.PlusMinus,
		)
		if err != nil {
			return nil, err
		}
		g.FGPct = floatPtr(fgPct)
		g.FG3Pct = floatPtr(fg3Pct)
		g.FTPct = floatPtr(ftPct)
		out = append(out, g)
	}
	return out, rows.Err()
}
