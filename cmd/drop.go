package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/storage"
)

var (
	dropForce  bool
	dropPlayer int64
)

// dropCmd deletes the stats database, or one player's rows.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the stats database or one player's data",
	Long: `Permanently delete stored data.

Without --player the SQLite database file is removed; on PostgreSQL and MySQL
every table is dropped by rolling migrations back to version 0. With --player
only that player's rows are removed. Re-run ingest afterwards to rebuild.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().Int64Var(&dropPlayer, "player", 0, "only delete this player id")
}

func runDrop(cmd *cobra.Command, _ []string) error {
	target := cfg.DB
	if dropPlayer != 0 {
		target = fmt.Sprintf("every row of player %d in %s", dropPlayer, cfg.DB)
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", target)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}

	if dropPlayer == 0 && cfg.Backend() == storage.SQLite {
		if err := os.Remove(cfg.DB); err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
				return nil
			}
			return fmt.Errorf("remove database: %w", err)
		}
		for _, suffix := range []string{"-wal", "-shm"} {
			_ = os.Remove(cfg.DB + suffix)
		}
		fmt.Fprintf(os.Stdout, "Deleted: %s\n", cfg.DB)
		return nil
	}

	db, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	if dropPlayer != 0 {
		if err := db.DeletePlayer(cmd.Context(), dropPlayer); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Deleted player %d\n", dropPlayer)
		return nil
	}
	if _, err := db.Migrate(0); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Dropped all tables in %s\n", db.Backend())
	return nil
}
