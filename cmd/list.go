package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/report"
)

var listActiveOnly bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored players",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listActiveOnly, "active-only", false, "only active players")
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	players, err := db.ListPlayers(ctx, listActiveOnly)
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	if len(players) == 0 {
		fmt.Fprintln(os.Stdout, "No players stored yet. Run 'hoopstats ingest --teams-players' to seed them.")
		return nil
	}
	report.PrintPlayers(os.Stdout, players)
	fmt.Fprintf(os.Stdout, "\n(%d players)\n", len(players))
	return nil
}
