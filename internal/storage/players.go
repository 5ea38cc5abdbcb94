package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pable/hoopstats/internal/model"
)

var (
	teamCols   = []string{"team_id", "full_name", "abbreviation", "city", "state", "conference", "division"}
	playerCols = []string{"player_id", "full_name", "team_id", "team_abbr", "position", "jersey_number", "is_active"}
)

// UpsertTeams inserts or updates teams by team_id.
func (db *DB) UpsertTeams(ctx context.Context, teams []model.Team) error {
	query := db.upsertSQL("teams", teamCols, []string{"team_id"})
	return db.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, t := range teams {
			if _, err := stmt.ExecContext(ctx, t.ID, t.FullName, t.Abbreviation, t.City, t.State, t.Conference, t.Division); err != nil {
				return fmt.Errorf("upsert team %d: %w", t.ID, err)
			}
		}
		return nil
	})
}

// ListTeams returns every stored team ordered by abbreviation.
func (db *DB) ListTeams(ctx context.Context) ([]model.Team, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT team_id, full_name, abbreviation, city, state, conference, division
		FROM teams ORDER BY abbreviation`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Team
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.FullName, &t.Abbreviation, &t.City, &t.State, &t.Conference, &t.Division); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpsertPlayers inserts or updates players by player_id.
func (db *DB) UpsertPlayers(ctx context.Context, players []model.Player) error {
	query := db.upsertSQL("players", playerCols, []string{"player_id"})
	return db.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, p := range players {
			var teamID sql.NullInt64
			if p.TeamID != nil {
				teamID = sql.NullInt64{Int64: *p.TeamID, Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, p.ID, p.FullName, teamID, p.TeamAbbr, p.Position, p.JerseyNumber, p.IsActive); err != nil {
				return fmt.Errorf("upsert player %d: %w", p.ID, err)
			}
		}
		return nil
	})
}

const playerSelect = `SELECT player_id, full_name, team_id, team_abbr, position, jersey_number, is_active FROM players`

// SearchPlayers returns players whose name contains q, case-insensitively,
// ordered by name. limit <= 0 means no limit.
func (db *DB) SearchPlayers(ctx context.Context, q string, activeOnly bool, limit int) ([]model.Player, error) {
	query := playerSelect + ` WHERE LOWER(full_name) LIKE ?`
	args := []any{"%" + strings.ToLower(q) + "%"}
	if activeOnly {
		query += ` AND is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY full_name`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return db.queryPlayers(ctx, query, args...)
}

// ListPlayers returns stored players ordered by name.
func (db *DB) ListPlayers(ctx context.Context, activeOnly bool) ([]model.Player, error) {
	if activeOnly {
		return db.queryPlayers(ctx, playerSelect+` WHERE is_active = ? ORDER BY full_name`, true)
	}
	return db.queryPlayers(ctx, playerSelect+` ORDER BY full_name`)
}

// GetPlayer returns one player, or ErrNotFound.
func (db *DB) GetPlayer(ctx context.Context, id int64) (*model.Player, error) {
	players, err := db.queryPlayers(ctx, playerSelect+` WHERE player_id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, fmt.Errorf("player %d: %w", id, ErrNotFound)
	}
	return &players[0], nil
}

// PlayerIDs returns the ids of stored players.
func (db *DB) PlayerIDs(ctx context.Context, activeOnly bool) ([]int64, error) {
	query := `SELECT player_id FROM players`
	var args []any
	if activeOnly {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY player_id`

	rows, err := db.conn.QueryContext(ctx, db.rebind(query), args...)
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

func (db *DB) queryPlayers(ctx context.Context, query string, args ...any) ([]model.Player, error) {
	rows, err := db.conn.QueryContext(ctx, db.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Player
	for rows.Next() {
		var p model.Player
		var teamID sql.NullInt64
		if err := rows.Scan(&p.ID, &p.FullName, &teamID, &p.TeamAbbr, &p.Position, &p.JerseyNumber, &p.IsActive); err != nil {
			return nil, err
		}
		if teamID.Valid {
			id := teamID.Int64
			p.TeamID = &id
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeletePlayer removes a player and every row derived from them.
func (db *DB) DeletePlayer(ctx context.Context, id int64) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, db.rebind(`SELECT COUNT(1) FROM players WHERE player_id = ?`), id).Scan(&n); err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("player %d: %w", id, ErrNotFound)
		}
		for _, table := range []string{
			"player_insights", "player_rolling_averages", "shot_chart",
			"player_advanced_stats", "player_game_logs", "players",
		} {
			if _, err := tx.ExecContext(ctx, db.rebind(`DELETE FROM `+table+` WHERE player_id = ?`), id); err != nil {
				return fmt.Errorf("delete from %s: %w", table, err)
			}
		}
		return nil
	})
}

// IsNotFound reports whether err wraps ErrNotFound or sql.ErrNoRows.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}
