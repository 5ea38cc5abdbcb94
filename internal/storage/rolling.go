package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pable/hoopstats/internal/model"
)

// ReplaceRollingAverages replaces every stored rolling average of a player's
// season, across all window sizes, with rows. The delete and the inserts run
// in one transaction, so readers see either the old partition or the new one.
func (db *DB) ReplaceRollingAverages(ctx context.Context, playerID int64, season string, rows []model.RollingAverage) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			db.rebind(`DELETE FROM player_rolling_averages WHERE player_id = ? AND season = ?`),
			playerID, season); err != nil {
			return fmt.Errorf("clear rolling averages: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		stmt, err := tx.PrepareContext(ctx, db.rebind(`
			INSERT INTO player_rolling_averages(
				player_id, game_date, season, window_size,
				pts_avg, reb_avg, ast_avg, ts_pct_avg, plus_minus_avg
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`))
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range rows {
			_, err := stmt.ExecContext(ctx,
				playerID, r.GameDate, season, r.WindowSize,
				r.PointsAvg, r.ReboundsAvg, r.AssistsAvg, nullFloat(r.EfficiencyAvg), r.PlusMinusAvg,
			)
			if err != nil {
				return fmt.Errorf("insert rolling average %s/w%d: %w", r.GameDate, r.WindowSize, err)
			}
		}
		return nil
	})
}

// RollingAverages returns a player's stored averages for one window size,
// ascending by date.
func (db *DB) RollingAverages(ctx context.Context, playerID int64, season string, window int) ([]model.RollingAverage, error) {
	rows, err := db.conn.QueryContext(ctx, db.rebind(`
		SELECT player_id, game_date, season, window_size,
		       pts_avg, reb_avg, ast_avg, ts_pct_avg, plus_minus_avg
		FROM player_rolling_averages
		WHERE player_id = ? AND season = ? AND window_size = ?
		ORDER BY game_date ASC`), playerID, season, window)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RollingAverage
	for rows.Next() {
		var r model.RollingAverage
		var ts sql.NullFloat64
		if err := rows.Scan(
			&r.PlayerID, &r.GameDate, &r.Season, &r.WindowSize,
			&r.PointsAvg, &r.ReboundsAvg, &r.AssistsAvg, &ts, &r.PlusMinusAvg,
		); err != nil {
			return nil, err
		}
		r.EfficiencyAvg = floatPtr(ts)
		out = append(out, r)
	}
	return out, rows.Err()
}
