package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/aggregator"
	"github.com/pable/hoopstats/internal/report"
)

var trendPick int

var trendCmd = &cobra.Command{
	Use:   "trend <player>",
	Short: "Compare a player's last five games with their season average",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrend,
}

func init() {
	trendCmd.Flags().IntVar(&trendPick, "pick", 0, "choose the Nth candidate when the name is ambiguous")
}

func runTrend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	player, err := storedPlayer(ctx, db, args[0], trendPick)
	if err != nil {
		return err
	}
	logs, err := db.SeasonGameLogs(ctx, player.ID, cfg.Season)
	if err != nil {
		return fmt.Errorf("query game logs: %w", err)
	}
	if len(logs) == 0 {
		fmt.Println("no games found")
		return nil
	}
	report.PrintTrend(os.Stdout, player.FullName, cfg.Season, aggregator.Trends(logs))
	return nil
}
