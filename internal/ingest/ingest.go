// Package ingest orchestrates pulling data from the stats provider into the
// store and recomputing derived rolling averages.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/pable/hoopstats/internal/aggregator"
	"github.com/pable/hoopstats/internal/logger"
	"github.com/pable/hoopstats/internal/metrics"
	"github.com/pable/hoopstats/internal/model"
)

var (
	// ErrPlayerNotFound means no stored or provider player matched a name.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrAmbiguousPlayer means a name matched several players and none was picked.
	ErrAmbiguousPlayer = errors.New("player name is ambiguous")
)

// Provider is the upstream source of basketball data.
type Provider interface {
	Teams() ([]model.Team, error)
	Players(ctx context.Context, season string, activeOnly bool) ([]model.Player, error)
	GameLogs(ctx context.Context, playerID int64, season string) ([]model.GameLog, error)
	LeagueAdvancedStats(ctx context.Context, season string) ([]model.AdvancedStats, error)
	ShotChart(ctx context.Context, playerID int64, season string) ([]model.Shot, error)
}

// Store is the persistence the pipeline writes to.
type Store interface {
	UpsertTeams(ctx context.Context, teams []model.Team) error
	UpsertPlayers(ctx context.Context, players []model.Player) error
	SearchPlayers(ctx context.Context, q string, activeOnly bool, limit int) ([]model.Player, error)
	UpsertGameLogs(ctx context.Context, logs []model.GameLog) error
	GameRecords(ctx context.Context, playerID int64, season string) ([]model.GameRecord, error)
	UpsertAdvancedStats(ctx context.Context, stats []model.AdvancedStats) (int, error)
	ReplaceShotChart(ctx context.Context, playerID int64, season string, shots []model.Shot) error
	ReplaceRollingAverages(ctx context.Context, playerID int64, season string, rows []model.RollingAverage) error
	PlayersWithGameLogs(ctx context.Context, season string) ([]int64, error)
}

// Pipeline runs ingestion steps against a store and a provider.
type Pipeline struct {
	store    Store
	provider Provider
	log      logger.Logger
	metrics  *metrics.Manager
	windows  []int
}

// New returns a pipeline computing the given rolling windows. An empty
// window list uses aggregator.DefaultWindows; m may be nil.
func New(store Store, provider Provider, log logger.Logger, windows []int, m *metrics.Manager) *Pipeline {
	if len(windows) == 0 {
		windows = aggregator.DefaultWindows
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{
		store:    store,
		provider: provider,
		log:      log.Named("ingest"),
		metrics:  m,
		windows:  windows,
	}
}

// SeedTeams stores the provider's team list.
func (p *Pipeline) SeedTeams(ctx context.Context) (int, error) {
	teams, err := p.provider.Teams()
	if err != nil {
		return 0, fmt.Errorf("fetch teams: %w", err)
	}
	if err := p.store.UpsertTeams(ctx, teams); err != nil {
		return 0, fmt.Errorf("store teams: %w", err)
	}
	p.metrics.AddIngestedRows("teams", len(teams))
	p.log.Info(ctx, "teams upserted", logger.Int("rows", len(teams)))
	return len(teams), nil
}

// SeedPlayers stores the provider's player index for season.
func (p *Pipeline) SeedPlayers(ctx context.Context, season string, activeOnly bool) ([]model.Player, error) {
	players, err := p.provider.Players(ctx, season, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("fetch players: %w", err)
	}
	if err := p.store.UpsertPlayers(ctx, players); err != nil {
		return nil, fmt.Errorf("store players: %w", err)
	}
	p.metrics.AddIngestedRows("players", len(players))
	p.log.Info(ctx, "players upserted", logger.Int("rows", len(players)), logger.Any("active_only", activeOnly))
	return players, nil
}

// IngestAdvancedStats stores the league advanced lines for season. Lines for
// players not yet stored are dropped by the store.
func (p *Pipeline) IngestAdvancedStats(ctx context.Context, season string) (int, error) {
	p.log.Info(ctx, "fetching league advanced stats", logger.String("season", season))
	stats, err := p.provider.LeagueAdvancedStats(ctx, season)
	if err != nil {
		return 0, fmt.Errorf("fetch advanced stats: %w", err)
	}
	n, err := p.store.UpsertAdvancedStats(ctx, stats)
	if err != nil {
		return 0, fmt.Errorf("store advanced stats: %w", err)
	}
	p.metrics.AddIngestedRows("player_advanced_stats", n)
	p.log.Info(ctx, "advanced stats upserted", logger.String("season", season), logger.Int("rows", n))
	return n, nil
}

// IngestGameLogs fetches and upserts a player's game logs for season.
func (p *Pipeline) IngestGameLogs(ctx context.Context, playerID int64, season string) (int, error) {
	fields := []logger.Field{logger.Int64("player_id", playerID), logger.String("season", season)}
	p.log.Debug(ctx, "fetching game logs", fields...)

	logs, err := p.provider.GameLogs(ctx, playerID, season)
	if err != nil {
		return 0, fmt.Errorf("fetch game logs for %d: %w", playerID, err)
	}
	if len(logs) == 0 {
		p.log.Warn(ctx, "no game logs found", fields...)
		return 0, nil
	}
	if err := p.store.UpsertGameLogs(ctx, logs); err != nil {
		return 0, fmt.Errorf("store game logs for %d: %w", playerID, err)
	}
	p.metrics.AddIngestedRows("player_game_logs", len(logs))
	p.log.Info(ctx, "game logs upserted", append(fields, logger.Int("rows", len(logs)))...)
	return len(logs), nil
}

// IngestShotChart replaces a player's stored shot chart for season. An empty
// provider response leaves the stored chart untouched.
func (p *Pipeline) IngestShotChart(ctx context.Context, playerID int64, season string) (int, error) {
	fields := []logger.Field{logger.Int64("player_id", playerID), logger.String("season", season)}
	p.log.Debug(ctx, "fetching shot chart", fields...)

	shots, err := p.provider.ShotChart(ctx, playerID, season)
	if err != nil {
		return 0, fmt.Errorf("fetch shot chart for %d: %w", playerID, err)
	}
	if len(shots) == 0 {
		return 0, nil
	}
	if err := p.store.ReplaceShotChart(ctx, playerID, season, shots); err != nil {
		return 0, fmt.Errorf("store shot chart for %d: %w", playerID, err)
	}
	p.metrics.AddIngestedRows("shot_chart", len(shots))
	p.log.Info(ctx, "shot chart replaced", append(fields, logger.Int("rows", len(shots)))...)
	return len(shots), nil
}

// ComputeRollingAverages recomputes and replaces a player's rolling averages
// for season from the stored game logs.
func (p *Pipeline) ComputeRollingAverages(ctx context.Context, playerID int64, season string) (int, error) {
	records, err := p.store.GameRecords(ctx, playerID, season)
	if err != nil {
		return 0, fmt.Errorf("load game records for %d: %w", playerID, err)
	}
	rows := aggregator.Rolling(records, p.windows)
	for i := range rows {
		rows[i].Season = season
	}
	if err := p.store.ReplaceRollingAverages(ctx, playerID, season, rows); err != nil {
		return 0, fmt.Errorf("store rolling averages for %d: %w", playerID, err)
	}
	p.metrics.AddIngestedRows("player_rolling_averages", len(rows))
	p.log.Info(ctx, "rolling averages computed",
		logger.Int64("player_id", playerID), logger.String("season", season),
		logger.Int("games", len(records)), logger.Int("rows", len(rows)))
	return len(rows), nil
}

// PlayerResult counts what one player ingestion wrote.
type PlayerResult struct {
	Player      model.Player
	Season      string
	GameLogs    int
	Shots       int
	RollingRows int
}

// IngestPlayer runs the per-player pipeline: game logs, shot chart, then
// rolling averages. The player row itself is upserted first.
func (p *Pipeline) IngestPlayer(ctx context.Context, player model.Player, season string) (PlayerResult, error) {
	res := PlayerResult{Player: player, Season: season}
	p.log.Info(ctx, "ingesting player",
		logger.String("player", player.FullName), logger.Int64("player_id", player.ID), logger.String("season", season))

	if player.FullName != "" {
		if err := p.store.UpsertPlayers(ctx, []model.Player{player}); err != nil {
			return res, fmt.Errorf("store player %d: %w", player.ID, err)
		}
	}

	var err error
	if res.GameLogs, err = p.IngestGameLogs(ctx, player.ID, season); err != nil {
		return res, err
	}
	if res.Shots, err = p.IngestShotChart(ctx, player.ID, season); err != nil {
		return res, err
	}
	if res.RollingRows, err = p.ComputeRollingAverages(ctx, player.ID, season); err != nil {
		return res, err
	}
	return res, nil
}
