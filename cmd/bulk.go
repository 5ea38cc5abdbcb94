package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/model"
)

var (
	bulkSeasons    []string
	bulkAllSeasons bool
	bulkActiveOnly bool
)

var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Ingest every player across one or more seasons",
	Long: `Run the per-player pipeline (game logs, shot chart, rolling averages) for every
player across several seasons. The player index is taken from the first season.
Failures are logged and skipped; a summary is printed at the end.`,
	Args: cobra.NoArgs,
	RunE: runBulk,
}

func init() {
	bulkCmd.Flags().StringSliceVar(&bulkSeasons, "seasons", nil, "comma-separated seasons, e.g. 2023-24,2024-25 (default --season)")
	bulkCmd.Flags().BoolVar(&bulkAllSeasons, "all-seasons", false, "every season from 2001-02 to 2025-26")
	bulkCmd.Flags().BoolVar(&bulkActiveOnly, "active-only", false, "only currently active players")
	bulkCmd.MarkFlagsMutuallyExclusive("seasons", "all-seasons")
}

func runBulk(cmd *cobra.Command, _ []string) error {
	seasons := []string{cfg.Season}
	switch {
	case bulkAllSeasons:
		seasons = model.AllSeasons
	case len(bulkSeasons) > 0:
		seasons = make([]string, 0, len(bulkSeasons))
		for _, s := range bulkSeasons {
			s = strings.TrimSpace(s)
			if err := model.ValidateSeason(s); err != nil {
				return err
			}
			seasons = append(seasons, s)
		}
	}

	ctx := cmd.Context()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Printf("Bulk ingest: %d season(s) from %s\n", len(seasons), seasons[0])
	sum, err := newPipeline(db).Bulk(ctx, seasons, bulkActiveOnly)
	if err != nil {
		return err
	}
	printFailures(sum)
	return nil
}
