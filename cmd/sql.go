package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the stats database",
	Long: `Run an arbitrary SQL query against the stats database and print results as a table.

Schema overview:
  teams(team_id, full_name, abbreviation, city, state, conference, division)
  players(player_id, full_name, team_id, team_abbr, position, jersey_number, is_active)
  player_game_logs(player_id, game_id, game_date, season, matchup, wl, minutes, pts, reb,
    ast, stl, blk, tov, fgm, fga, fg_pct, fg3m, fg3a, fg3_pct, ftm, fta, ft_pct, plus_minus)
  player_advanced_stats(player_id, season, gp, per, ts_pct, usg_pct, bpm, vorp,
    ast_pct, reb_pct, tov_pct)
  shot_chart(player_id, game_id, season, game_date, shot_zone, shot_zone_basic,
    shot_distance, loc_x, loc_y, shot_made, shot_type, action_type)
  player_rolling_averages(player_id, game_date, season, window_size, pts_avg,
    reb_avg, ast_avg, ts_pct_avg, plus_minus_avg)
  player_insights(player_id, season, insight_type, insight_text, generated_at, expires_at)

Note: game_date is stored as text (YYYY-MM-DD); generated_at and expires_at are unix seconds.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(cmd.Context(), query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
