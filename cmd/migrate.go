package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateTarget int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database schema migrations",
	Long: `Migrate the database schema. Every command already migrates to the latest
version on open; use this to roll back (--target-version 0 drops every table)
or to pin a specific version.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().IntVar(&migrateTarget, "target-version", -1, "target migration version (-1 means latest, 0 means roll back everything)")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	db, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.Migrate(migrateTarget)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if !res.Changed {
		fmt.Printf("Schema already at version %d (%s)\n", res.To, db.Backend())
		return nil
	}
	fmt.Printf("Migrated %s schema from version %d to %d\n", db.Backend(), res.From, res.To)
	return nil
}
