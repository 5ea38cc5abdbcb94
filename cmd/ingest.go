package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/storage"
)

var (
	ingestPlayer       string
	ingestPlayerID     int64
	ingestPick         int
	ingestFullRefresh  bool
	ingestTeamsPlayers bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch stats from stats.nba.com into the database",
	Long: `Fetch game logs, shot charts and advanced stats, then recompute rolling averages.

Exactly one mode is required:
  --player NAME        one player, resolved by name
  --player-id ID       one player by NBA person id
  --teams-players      seed teams, players and league advanced stats only
  --full-refresh       seed everything, then ingest every active player`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestPlayer, "player", "", "player name (case-insensitive, partial match)")
	ingestCmd.Flags().Int64Var(&ingestPlayerID, "player-id", 0, "NBA person id")
	ingestCmd.Flags().IntVar(&ingestPick, "pick", 0, "choose the Nth candidate when --player is ambiguous")
	ingestCmd.Flags().BoolVar(&ingestFullRefresh, "full-refresh", false, "ingest every active player for the season")
	ingestCmd.Flags().BoolVar(&ingestTeamsPlayers, "teams-players", false, "seed teams, players and advanced stats only")
	ingestCmd.MarkFlagsMutuallyExclusive("player", "player-id", "full-refresh", "teams-players")
	ingestCmd.MarkFlagsOneRequired("player", "player-id", "full-refresh", "teams-players")
}

func runIngest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	p := newPipeline(db)
	season := cfg.Season

	switch {
	case ingestFullRefresh:
		sum, err := p.FullRefresh(ctx, season)
		if err != nil {
			return err
		}
		printFailures(sum)
		return nil

	case ingestTeamsPlayers:
		teams, err := p.SeedTeams(ctx)
		if err != nil {
			return err
		}
		players, err := p.SeedPlayers(ctx, season, false)
		if err != nil {
			return err
		}
		adv, err := p.IngestAdvancedStats(ctx, season)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Stored %d teams, %d players, %d advanced stat lines for %s\n", teams, len(players), adv, season)
		return nil
	}

	var player model.Player
	if ingestPlayerID != 0 {
		stored, err := db.GetPlayer(ctx, ingestPlayerID)
		switch {
		case err == nil:
			player = *stored
		case storage.IsNotFound(err):
			player = model.Player{ID: ingestPlayerID}
		default:
			return err
		}
	} else {
		if player, err = resolvePlayer(ctx, p, ingestPlayer, ingestPick); err != nil {
			return err
		}
	}

	res, err := p.IngestPlayer(ctx, player, season)
	if err != nil {
		return err
	}
	name := res.Player.FullName
	if name == "" {
		name = fmt.Sprintf("player %d", res.Player.ID)
	}
	fmt.Fprintf(os.Stdout, "%s (%s): %d game logs, %d shots, %d rolling rows\n",
		name, season, res.GameLogs, res.Shots, res.RollingRows)
	return nil
}
