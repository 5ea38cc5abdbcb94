package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/ingest"
	"github.com/pable/hoopstats/internal/model"
	"github.com/pable/hoopstats/internal/report"
)

var (
	searchActiveOnly bool
	searchFetch      bool
)

var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Find players by name, best matches first",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchActiveOnly, "active-only", false, "only active players")
	searchCmd.Flags().BoolVar(&searchFetch, "fetch", false, "seed the player index from stats.nba.com when nothing is stored")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	var cands []model.PlayerCandidate
	if searchFetch {
		cands, err = newPipeline(db).ResolvePlayer(ctx, args[0], cfg.Season)
		if err != nil {
			return err
		}
	} else {
		found, err := db.SearchPlayers(ctx, args[0], searchActiveOnly, 0)
		if err != nil {
			return fmt.Errorf("search players: %w", err)
		}
		cands = ingest.RankCandidates(args[0], found)
	}
	if len(cands) == 0 {
		fmt.Fprintf(os.Stdout, "No stored player matches %q. Try --fetch.\n", args[0])
		return nil
	}
	report.PrintCandidates(os.Stdout, cands)
	return nil
}
