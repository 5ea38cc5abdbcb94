package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/aggregator"
	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/report"
)

var compareCmd = &cobra.Command{
	Use:   "compare <player> <player> [player...]",
	Short: "Season averages side by side",
	Long:  "Compare season averages. Each name must resolve to exactly one stored player; use a fuller name or the player id to disambiguate.",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	players := make([]model.Player, 0, len(args))
	logs := make(map[int64][]model.GameLog, len(args))
	for _, name := range args {
		p, err := storedPlayer(ctx, db, name, 0)
		if err != nil {
			return err
		}
		if logs[p.ID], err = db.SeasonGameLogs(ctx, p.ID, cfg.Season); err != nil {
			return fmt.Errorf("query game logs: %w", err)
		}
		players = append(players, p)
	}

	rows := aggregator.Compare(players, logs)
	if len(rows) == 0 {
		fmt.Printf("no games found for these players in %s\n", cfg.Season)
		return nil
	}
	report.PrintComparison(os.Stdout, rows)
	return nil
}
