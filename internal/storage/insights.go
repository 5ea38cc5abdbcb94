package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pable/hoopstats/internal/model"
)

// LatestInsight returns the most recently generated insight of the given type
// that has not expired at now, or ErrNotFound.
func (db *DB) LatestInsight(ctx context.Context, playerID int64, season, insightType string, now time.Time) (*model.Insight, error) {
	var in model.Insight
	var generated, expires int64
	err := db.conn.QueryRowContext(ctx, db.rebind(`
		SELECT player_id, season, insight_type, insight_text, generated_at, expires_at
		FROM player_insights
		WHERE player_id = ? AND season = ? AND insight_type = ? AND expires_at > ?
		ORDER BY generated_at DESC, id DESC
		LIMIT 1`), playerID, season, insightType, now.Unix()).
		Scan(&in.PlayerID, &in.Season, &in.Type, &in.Text, &generated, &expires)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("insight %d/%s/%s: %w", playerID, season, insightType, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	in.GeneratedAt = time.Unix(generated, 0).UTC()
	in.ExpiresAt = time.Unix(expires, 0).UTC()
	return &in, nil
}

// InsertInsight stores a generated insight.
func (db *DB) InsertInsight(ctx context.Context, in model.Insight) error {
	_, err := db.conn.ExecContext(ctx, db.rebind(`
		INSERT INTO player_insights(player_id, season, insight_type, insight_text, generated_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		in.PlayerID, in.Season, in.Type, in.Text, in.GeneratedAt.Unix(), in.ExpiresAt.Unix())
	return err
}
