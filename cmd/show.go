package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/aggregator"
	"github.com/pable/hoopstats/internal/report"
	"github.com/pable/hoopstats/internal/storage"
)

var (
	showLast int
	showPick int
)

var showCmd = &cobra.Command{
	Use:   "show <player>",
	Short: "Show a player's recent games, shot zones and advanced stats",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().IntVar(&showLast, "last", 10, "number of recent games (0 = all)")
	showCmd.Flags().IntVar(&showPick, "pick", 0, "choose the Nth candidate when the name is ambiguous")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	player, err := storedPlayer(ctx, db, args[0], showPick)
	if err != nil {
		return err
	}
	season := cfg.Season
	fmt.Fprintf(os.Stdout, "\n%s  |  %s  |  %s  |  id %d\n\n", player.FullName, player.TeamAbbr, season, player.ID)

	logs, err := db.GameLogs(ctx, player.ID, season, showLast)
	if err != nil {
		return fmt.Errorf("query game logs: %w", err)
	}
	if len(logs) == 0 {
		fmt.Fprintln(os.Stdout, "No game logs stored for this season.")
	} else {
		report.PrintGameLogs(os.Stdout, logs)
	}

	shots, err := db.Shots(ctx, player.ID, season)
	if err != nil {
		return fmt.Errorf("query shots: %w", err)
	}
	if len(shots) > 0 {
		fmt.Fprintln(os.Stdout, "\nShot zones")
		report.PrintShotZones(os.Stdout, aggregator.ShotZoneSummary(shots))
	}

	adv, err := db.GetAdvancedStats(ctx, player.ID, season)
	switch {
	case err == nil:
		fmt.Fprintln(os.Stdout, "\nAdvanced")
		report.PrintAdvanced(os.Stdout, *adv)
	case !storage.IsNotFound(err):
		return fmt.Errorf("query advanced stats: %w", err)
	}
	return nil
}
