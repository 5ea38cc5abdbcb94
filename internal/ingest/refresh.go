package ingest

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/pable/hoopstats/internal/logger"
	"github.com/pable/hoopstats/internal/model"
)

// Failure records a player that was skipped.
type Failure struct {
	Player model.Player
	Season string
	Err    error
}

func (f Failure) String() string {
	return fmt.Sprintf("%s (%s): %v", f.Player.FullName, f.Season, f.Err)
}

// Summary reports the outcome of a multi-player run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    []Failure
}

// FullRefresh seeds teams, active players and advanced stats for season,
// then runs the per-player pipeline for every active player. A failing
// player is logged and skipped; the run only aborts on seeding errors or
// context cancellation.
func (p *Pipeline) FullRefresh(ctx context.Context, season string) (Summary, error) {
	var sum Summary
	if _, err := p.SeedTeams(ctx); err != nil {
		return sum, err
	}
	players, err := p.SeedPlayers(ctx, season, true)
	if err != nil {
		return sum, err
	}
	if _, err := p.IngestAdvancedStats(ctx, season); err != nil {
		return sum, err
	}

	sum.Total = len(players)
	for i, pl := range players {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		p.log.Info(ctx, "refreshing player",
			logger.String("progress", fmt.Sprintf("%d/%d", i+1, len(players))),
			logger.String("player", pl.FullName))

		if err := p.refreshPlayer(ctx, pl.ID, season); err != nil {
			p.skip(ctx, &sum, pl, season, err)
			continue
		}
		sum.Succeeded++
	}
	p.log.Info(ctx, "full refresh finished",
		logger.String("season", season), logger.Int("succeeded", sum.Succeeded), logger.Int("failed", len(sum.Failed)))
	return sum, nil
}

func (p *Pipeline) refreshPlayer(ctx context.Context, playerID int64, season string) error {
	if _, err := p.IngestGameLogs(ctx, playerID, season); err != nil {
		return err
	}
	if _, err := p.IngestShotChart(ctx, playerID, season); err != nil {
		return err
	}
	_, err := p.ComputeRollingAverages(ctx, playerID, season)
	return err
}

func (p *Pipeline) skip(ctx context.Context, sum *Summary, pl model.Player, season string, err error) {
	p.metrics.IncIngestFailures()
	p.log.Error(ctx, "player failed, skipping",
		logger.String("player", pl.FullName), logger.Int64("player_id", pl.ID),
		logger.String("season", season), logger.Error(err))
	sum.Failed = append(sum.Failed, Failure{Player: pl, Season: season, Err: err})
}

// Bulk runs the per-player pipeline for every player across seasons. The
// player index is fetched once, from the first season, and stored.
func (p *Pipeline) Bulk(ctx context.Context, seasons []string, activeOnly bool) (Summary, error) {
	var sum Summary
	if len(seasons) == 0 {
		return sum, nil
	}
	players, err := p.SeedPlayers(ctx, seasons[0], activeOnly)
	if err != nil {
		return sum, err
	}

	sum.Total = len(players) * len(seasons)
	done := 0
	for _, season := range seasons {
		p.log.Info(ctx, "bulk season", logger.String("season", season), logger.Int("players", len(players)))
		for _, pl := range players {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
			done++
			p.log.Info(ctx, "bulk player",
				logger.String("progress", fmt.Sprintf("%d/%d", done, sum.Total)),
				logger.String("player", pl.FullName), logger.String("season", season))

			if _, err := p.IngestPlayer(ctx, pl, season); err != nil {
				p.skip(ctx, &sum, pl, season, err)
				continue
			}
			sum.Succeeded++
		}
	}
	return sum, nil
}

// RecomputeSeason recomputes rolling averages for every player with game
// logs in season, running up to workers players at a time. It returns the
// number of rows written and stops at the first error.
func (p *Pipeline) RecomputeSeason(ctx context.Context, season string, workers int) (int, error) {
	ids, err := p.store.PlayersWithGameLogs(ctx, season)
	if err != nil {
		return 0, fmt.Errorf("list players for %s: %w", season, err)
	}
	if workers <= 0 {
		workers = 1
	}

	var rows atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, id := range ids {
		g.Go(func() error {
			n, err := p.ComputeRollingAverages(gctx, id, season)
			rows.Add(int64(n))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return int(rows.Load()), err
	}
	p.log.Info(ctx, "season recomputed",
		logger.String("season", season), logger.Int("players", len(ids)), logger.Int64("rows", rows.Load()))
	return int(rows.Load()), nil
}
