package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/report"
)

var (
	rollingWindow int
	rollingPick   int
)

var rollingCmd = &cobra.Command{
	Use:   "rolling <player>",
	Short: "Show a player's stored rolling averages",
	Args:  cobra.ExactArgs(1),
	RunE:  runRolling,
}

var rollingRecomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute rolling averages from stored game logs for every player in the season",
	Args:  cobra.NoArgs,
	RunE:  runRollingRecompute,
}

func init() {
	rollingCmd.Flags().IntVar(&rollingWindow, "window", 10, "window size in games")
	rollingCmd.Flags().IntVar(&rollingPick, "pick", 0, "choose the Nth candidate when the name is ambiguous")

	rollingRecomputeCmd.Flags().String("windows", "", "comma-separated window sizes, e.g. \"5, 10, 20\" (default from config)")
	rollingRecomputeCmd.Flags().Int("workers", 0, "players recomputed in parallel (default GOMAXPROCS)")
	bindFlags(rollingRecomputeCmd, "windows", "workers")
	rollingCmd.AddCommand(rollingRecomputeCmd)
}

func runRolling(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	player, err := storedPlayer(ctx, db, args[0], rollingPick)
	if err != nil {
		return err
	}
	rows, err := db.RollingAverages(ctx, player.ID, cfg.Season, rollingWindow)
	if err != nil {
		return fmt.Errorf("query rolling averages: %w", err)
	}
	if len(rows) == 0 {
		fmt.Printf("no %d-game rolling averages for %s in %s\n", rollingWindow, player.FullName, cfg.Season)
		return nil
	}
	fmt.Printf("\n%s  |  %s  |  %d-game window\n\n", player.FullName, cfg.Season, rollingWindow)
	report.PrintRollingAverages(os.Stdout, rows)
	return nil
}

func runRollingRecompute(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := newPipeline(db).RecomputeSeason(ctx, cfg.Season, cfg.Workers)
	if err != nil {
		return err
	}
	fmt.Printf("Recomputed %d rolling rows for %s (windows %v)\n", n, cfg.Season, cfg.Windows)
	return nil
}
