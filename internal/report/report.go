// Package report renders stats as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/hoopstats/internal/model"
)

const missing = "—"

var (
	up   = color.New(color.FgGreen)
	down = color.New(color.FgRed)
	dim  = color.New(color.Faint)
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func f1(v float64) string { return fmt.Sprintf("%.1f", v) }

// pct formats a 0-1 fraction as a percentage.
func pct(v *float64) string {
	if v == nil {
		return missing
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}

func num(v *float64, format string) string {
	if v == nil {
		return missing
	}
	return fmt.Sprintf(format, *v)
}

// delta colours a change: green when it improves, red when it worsens.
func delta(v float64, format string, higherIsBetter bool) string {
	s := fmt.Sprintf(format, v)
	switch {
	case v == 0:
		return s
	case (v > 0) == higherIsBetter:
		return up.Sprint(s)
	default:
		return down.Sprint(s)
	}
}

// PrintPlayers lists players.
func PrintPlayers(w io.Writer, players []model.Player) {
	table := newTable(w)
	table.Header("ID", "NAME", "TEAM", "POS", "ACTIVE")
	for _, p := range players {
		active := "no"
		if p.IsActive {
			active = "yes"
		}
		table.Append(strconv.FormatInt(p.ID, 10), p.FullName, p.TeamAbbr, p.Position, active)
	}
	table.Render()
}

// PrintCandidates lists ranked name matches for the user to pick from.
func PrintCandidates(w io.Writer, cands []model.PlayerCandidate) {
	table := newTable(w)
	table.Header("#", "ID", "NAME", "TEAM", "MATCH")
	for _, c := range cands {
		match := c.Match.String()
		if c.Match != model.MatchExact {
			match = dim.Sprint(match)
		}
		table.Append(strconv.Itoa(c.Rank), strconv.FormatInt(c.Player.ID, 10), c.Player.FullName, c.Player.TeamAbbr, match)
	}
	table.Render()
}

// PrintGameLogs prints box scores in the order given.
func PrintGameLogs(w io.Writer, logs []model.GameLog) {
	table := newTable(w)
	table.Header("DATE", "MATCHUP", "W/L", "MIN", "PTS", "REB", "AST", "STL", "BLK", "TOV", "FG", "FG%", "3P", "3P%", "FT%", "+/-")
	for _, g := range logs {
		table.Append(
			g.GameDate,
			g.Matchup,
			g.WL,
			f1(g.Minutes),
			fmt.Sprintf("%.0f", g.Points),
			fmt.Sprintf("%.0f", g.Rebounds),
			fmt.Sprintf("%.0f", g.Assists),
			fmt.Sprintf("%.0f", g.Steals),
			fmt.Sprintf("%.0f", g.Blocks),
			fmt.Sprintf("%.0f", g.Turnovers),
			fmt.Sprintf("%.0f-%.0f", g.FGM, g.FGA),
			pct(g.FGPct),
			fmt.Sprintf("%.0f-%.0f", g.FG3M, g.FG3A),
			pct(g.FG3Pct),
			pct(g.FTPct),
			fmt.Sprintf("%+.0f", g.PlusMinus),
		)
	}
	table.Render()
}

// PrintRollingAverages prints one window's trailing averages.
func PrintRollingAverages(w io.Writer, rows []model.RollingAverage) {
	table := newTable(w)
	table.Header("DATE", "WIN", "PTS", "REB", "AST", "TS%", "+/-")
	for _, r := range rows {
		table.Append(
			r.GameDate,
			strconv.Itoa(r.WindowSize),
			f1(r.PointsAvg),
			f1(r.ReboundsAvg),
			f1(r.AssistsAvg),
			pct(r.EfficiencyAvg),
			fmt.Sprintf("%+.1f", r.PlusMinusAvg),
		)
	}
	table.Render()
}

// PrintTrend prints last-five deltas against the season average.
func PrintTrend(w io.Writer, name, season string, t model.Trend) {
	fmt.Fprintf(w, "\n%s  |  %s  |  season %.1f ppg  |  last 5 %.1f ppg\n\n", name, season, t.SeasonPts, t.RecentPts)

	fg := missing
	if t.FGPctDelta != nil {
		fg = delta(*t.FGPctDelta*100, "%+.1f", true)
	}
	table := newTable(w)
	table.Header("PTS", "REB", "AST", "FG%", "+/-")
	table.Append(
		delta(t.PtsDelta, "%+.1f", true),
		delta(t.RebDelta, "%+.1f", true),
		delta(t.AstDelta, "%+.1f", true),
		fg,
		delta(t.PlusMinusDelta, "%+.1f", true),
	)
	table.Render()
}

// PrintComparison prints season averages side by side.
func PrintComparison(w io.Writer, rows []model.ComparisonRow) {
	table := newTable(w)
	table.Header("NAME", "TEAM", "GP", "PPG", "RPG", "APG", "TOPG", "FG%", "3P%", "+/-")
	for _, r := range rows {
		table.Append(
			r.FullName,
			r.TeamAbbr,
			strconv.Itoa(r.GP),
			f1(r.PPG),
			f1(r.RPG),
			f1(r.APG),
			f1(r.TOPG),
			pct(r.FGPct),
			pct(r.FG3Pct),
			fmt.Sprintf("%+.1f", r.PlusMinus),
		)
	}
	table.Render()
}

// PrintShotZones prints attempts and accuracy per zone.
func PrintShotZones(w io.Writer, zones []model.ShotZone) {
	table := newTable(w)
	table.Header("ZONE", "AREA", "FGA", "FGM", "FG%")
	for _, z := range zones {
		table.Append(z.ZoneBasic, z.Zone, strconv.Itoa(z.Attempts), strconv.Itoa(z.Makes), fmt.Sprintf("%.1f%%", z.Pct))
	}
	table.Render()
}

// PrintAdvanced prints a season advanced line.
func PrintAdvanced(w io.Writer, a model.AdvancedStats) {
	table := newTable(w)
	table.Header("SEASON", "GP", "PIE", "TS%", "USG%", "AST%", "REB%", "TOV%", "BPM", "VORP")
	table.Append(
		a.Season,
		strconv.Itoa(a.GP),
		pct(a.PER),
		pct(a.TSPct),
		pct(a.UsgPct),
		pct(a.AstPct),
		pct(a.RebPct),
		num(a.TovPct, "%.1f"),
		num(a.BPM, "%.1f"),
		num(a.VORP, "%.1f"),
	)
	table.Render()
}
