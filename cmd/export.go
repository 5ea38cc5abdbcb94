package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/export"
	"github.com/pable/hoopstats/internal/model"
)

var (
	exportOut  string
	exportPick int
)

var exportCmd = &cobra.Command{
	Use:   "export <player>",
	Short: "Write a player's game logs and rolling averages to Parquet files",
	Long: `Write two Parquet files for the player and season:
  <id>_<season>_game_logs.parquet
  <id>_<season>_rolling.parquet (every configured window)`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", ".", "output directory")
	exportCmd.Flags().IntVar(&exportPick, "pick", 0, "choose the Nth candidate when the name is ambiguous")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	player, err := storedPlayer(ctx, db, args[0], exportPick)
	if err != nil {
		return err
	}
	season := cfg.Season

	logs, err := db.SeasonGameLogs(ctx, player.ID, season)
	if err != nil {
		return fmt.Errorf("query game logs: %w", err)
	}
	logsPath := filepath.Join(exportOut, export.FileName(player.ID, season, "game_logs"))
	if err := export.WriteGameLogs(logs, logsPath); err != nil {
		return err
	}
	fmt.Printf("Wrote %d game logs to %s\n", len(logs), logsPath)

	var rows []model.RollingAverage
	for _, w := range cfg.Windows {
		r, err := db.RollingAverages(ctx, player.ID, season, w)
		if err != nil {
			return fmt.Errorf("query rolling averages: %w", err)
		}
		rows = append(rows, r...)
	}
	rollingPath := filepath.Join(exportOut, export.FileName(player.ID, season, "rolling"))
	if err := export.WriteRollingAverages(rows, rollingPath); err != nil {
		return err
	}
	fmt.Printf("Wrote %d rolling rows to %s\n", len(rows), rollingPath)
	return nil
}
