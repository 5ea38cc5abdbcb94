package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pable/hoopstats/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long:  `Launch an MCP server that lets AI agents search players and read game logs, rolling averages and trends from the local database.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		return mcp.Serve(cmd.Context(), db, cfg.Season, version)
	},
}
