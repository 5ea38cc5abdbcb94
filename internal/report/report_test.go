package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/pable/hoopstats/internal/model"
)

func init() {
	color.NoColor = true
}

func ptr(f float64) *float64 { return &f }

func TestPrintGameLogs(t *testing.T) {
	var buf bytes.Buffer
	PrintGameLogs(&buf, []model.GameLog{
		{GameDate: "2025-01-10", Matchup: "DEN vs. LAL", WL: "W", Minutes: 36.5, Points: 31, FGM: 12, FGA: 20, FGPct: ptr(0.6), PlusMinus: 9},
		{GameDate: "2025-01-08", Matchup: "DEN @ PHX", WL: "L", PlusMinus: -4},
	})
	out := buf.String()
	assert.Contains(t, out, "DEN vs. LAL")
	assert.Contains(t, out, "12-20")
	assert.Contains(t, out, "60.0%")
	assert.Contains(t, out, "+9")
	assert.Contains(t, out, "-4")
	assert.Contains(t, out, missing)
}

func TestPrintTrend(t *testing.T) {
	var buf bytes.Buffer
	PrintTrend(&buf, "LeBron James", "2024-25", model.Trend{
		PtsDelta: 2.2, RebDelta: -1.0, FGPctDelta: ptr(0.031), SeasonPts: 23.6, RecentPts: 25.8,
	})
	out := buf.String()
	assert.Contains(t, out, "season 23.6 ppg")
	assert.Contains(t, out, "last 5 25.8 ppg")
	assert.Contains(t, out, "+2.2")
	assert.Contains(t, out, "-1.0")
	assert.Contains(t, out, "+3.1")
}

func TestDeltaColours(t *testing.T) {
	color.NoColor = false
	defer func() { color.NoColor = true }()

	assert.Equal(t, up.Sprint("+1.0"), delta(1, "%+.1f", true))
	assert.Equal(t, down.Sprint("+1.0"), delta(1, "%+.1f", false))
	assert.Equal(t, "+0.0", delta(0, "%+.1f", true))
}

func TestPrintCandidates(t *testing.T) {
	var buf bytes.Buffer
	PrintCandidates(&buf, []model.PlayerCandidate{
		{Rank: 1, Player: model.Player{ID: 2544, FullName: "LeBron James", TeamAbbr: "LAL"}, Match: model.MatchWordPrefix},
		{Rank: 2, Player: model.Player{ID: 1642355, FullName: "Bronny James", TeamAbbr: "LAL"}, Match: model.MatchWordPrefix},
	})
	lines := strings.Split(buf.String(), "\n")
	var body []string
	for _, l := range lines {
		if strings.Contains(l, "James") {
			body = append(body, l)
		}
	}
	assert.Len(t, body, 2)
	assert.Contains(t, body[0], "LeBron")
	assert.Contains(t, body[1], "1642355")
}

func TestPrintTables(t *testing.T) {
	var buf bytes.Buffer
	PrintRollingAverages(&buf, []model.RollingAverage{{GameDate: "2025-01-01", WindowSize: 5, PointsAvg: 22.24}})
	PrintComparison(&buf, []model.ComparisonRow{{FullName: "Nikola Jokic", TeamAbbr: "DEN", SeasonAverages: model.SeasonAverages{PPG: 29.6, GP: 70}}})
	PrintShotZones(&buf, []model.ShotZone{{ZoneBasic: "Restricted Area", Zone: "Center(C)", Attempts: 3, Makes: 2, Pct: 66.7}})
	PrintAdvanced(&buf, model.AdvancedStats{Season: "2024-25", GP: 70, TSPct: ptr(0.663)})
	PrintPlayers(&buf, []model.Player{{ID: 203999, FullName: "Nikola Jokic", IsActive: true}})

	out := buf.String()
	for _, want := range []string{"22.2", "29.6", "Nikola Jokic", "Restricted Area", "66.7%", "66.3%", "203999", "yes"} {
		assert.Contains(t, out, want)
	}
}
