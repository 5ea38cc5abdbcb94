package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pable/hoopstats/internal/model"
)

var advancedCols = []string{
	"player_id", "season", "gp", "per", "ts_pct", "usg_pct", "bpm", "vorp", "ast_pct", "reb_pct", "tov_pct",
}

// UpsertAdvancedStats stores advanced stat lines keyed by (player_id, season).
// Lines for players not in the players table are skipped. It returns the
// number of lines written.
func (db *DB) UpsertAdvancedStats(ctx context.Context, stats []model.AdvancedStats) (int, error) {
	ids, err := db.PlayerIDs(ctx, false)
	if err != nil {
		return 0, err
	}
	known := make(map[int64]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	written := 0
	query := db.upsertSQL("player_advanced_stats", advancedCols, []string{"player_id", "season"})
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, s := range stats {
			if !known[s.PlayerID] {
				continue
			}
			_, err := stmt.ExecContext(ctx,
				s.PlayerID, s.Season, s.GP,
				nullFloat(s.PER), nullFloat(s.TSPct), nullFloat(s.UsgPct), nullFloat(s.BPM),
				nullFloat(s.VORP), nullFloat(s.AstPct), nullFloat(s.RebPct), nullFloat(s.TovPct),
			)
			if err != nil {
				return fmt.Errorf("upsert advanced stats %d/%s: %w", s.PlayerID, s.Season, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// GetAdvancedStats returns a player's advanced line for a season, or ErrNotFound.
func (db *DB) GetAdvancedStats(ctx context.Context, playerID int64, season string) (*model.AdvancedStats, error) {
	var s model.AdvancedStats
	var per, ts, usg, bpm, vorp, ast, reb, tov sql.NullFloat64
	err := db.conn.QueryRowContext(ctx, db.rebind(`
		SELECT player_id, season, gp, per, ts_pct, usg_pct, bpm, vorp, ast_pct, reb_pct, tov_pct
		FROM player_advanced_stats WHERE player_id = ? AND season = ?`), playerID, season).
		Scan(&s.PlayerID, &s.Season, &s.GP, &per, &ts, &usg, &bpm, &vorp, &ast, &reb, &tov)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("advanced stats %d/%s: %w", playerID, season, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	s.PER, s.TSPct, s.UsgPct, s.BPM = floatPtr(per), floatPtr(ts), floatPtr(usg), floatPtr(bpm)
	s.VORP, s.AstPct, s.RebPct, s.TovPct = floatPtr(vorp), floatPtr(ast), floatPtr(reb), floatPtr(tov)
	return &s, nil
}

// ReplaceShotChart replaces every stored shot of a player's season with shots.
func (db *DB) ReplaceShotChart(ctx context.Context, playerID int64, season string, shots []model.Shot) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, db.rebind(`DELETE FROM shot_chart WHERE player_id = ? AND season = ?`), playerID, season); err != nil {
			return fmt.Errorf("clear shot chart: %w", err)
		}
		if len(shots) == 0 {
			return nil
		}
		stmt, err := tx.PrepareContext(ctx, db.rebind(`
			INSERT INTO shot_chart(
				player_id, game_id, season, game_date, shot_zone, shot_zone_basic,
				shot_distance, loc_x, loc_y, shot_made, shot_type, action_type
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, s := range shots {
			_, err := stmt.ExecContext(ctx,
				playerID, s.GameID, season, s.GameDate, s.ShotZone, s.ShotZoneBasic,
				s.ShotDistance, s.LocX, s.LocY, s.Made, s.ShotType, s.ActionType,
			)
			if err != nil {
				return fmt.Errorf("insert shot %s: %w", s.GameID, err)
			}
		}
		return nil
	})
}

// Shots returns a player's stored shots for a season.
func (db *DB) Shots(ctx context.Context, playerID int64, season string) ([]model.Shot, error) {
	rows, err := db.conn.QueryContext(ctx, db.rebind(`
		SELECT player_id, game_id, season, game_date, shot_zone, shot_zone_basic,
		       shot_distance, loc_x, loc_y, shot_made, shot_type, action_type
		FROM shot_chart WHERE player_id = ? AND season = ? ORDER BY id`), playerID, season)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Shot
	for rows.Next() {
		var s model.Shot
		if err := rows.Scan(
			&s.PlayerID, &s.GameID, &s.Season, &s.GameDate, &s.ShotZone, &s.ShotZoneBasic,
			&s.ShotDistance, &s.LocX, &s.LocY, &s.Made, &s.ShotType, &s.ActionType,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
