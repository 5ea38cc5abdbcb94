package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/hoopstats/internal/model"
)

func pct(v float64) *float64 { return &v }

func seasonLogs() []model.GameLog {
	pts := []float64{20, 22, 18, 30, 25, 27, 35, 12}
	logs := make([]model.GameLog, len(pts))
	for i, p := range pts {
		logs[i] = model.GameLog{
			PlayerID:  1,
			GameDate:  "2024-11-0" + string(rune('1'+i)),
			Points:    p,
			Rebounds:  8,
			Assists:   float64(i),
			Turnovers: 2,
			PlusMinus: float64(i - 4),
			FGPct:     pct(0.5),
		}
	}
	logs[7].FGPct = nil
	return logs
}

func TestSeasonAverages(t *testing.T) {
	avg := SeasonAverages(seasonLogs())
	assert.Equal(t, 8, avg.GP)
	assert.InDelta(t, 23.6, avg.PPG, 1e-9) // 189/8 = 23.625
	assert.InDelta(t, 8.0, avg.RPG, 1e-9)
	assert.InDelta(t, 3.5, avg.APG, 1e-9)
	assert.InDelta(t, 2.0, avg.TOPG, 1e-9)
	assert.InDelta(t, -0.5, avg.PlusMinus, 1e-9)
	require.NotNil(t, avg.FGPct)
	assert.InDelta(t, 0.5, *avg.FGPct, 1e-9)
	assert.Nil(t, avg.FG3Pct)
}

func TestSeasonAveragesEmpty(t *testing.T) {
	avg := SeasonAverages(nil)
	assert.Zero(t, avg.GP)
	assert.Nil(t, avg.FGPct)
}

func TestTrends(t *testing.T) {
	tr := Trends(seasonLogs())
	// last five: 30 25 27 35 12 -> 25.8; season 23.625
	assert.InDelta(t, 25.8, tr.RecentPts, 1e-9)
	assert.InDelta(t, 23.6, tr.SeasonPts, 1e-9)
	assert.InDelta(t, 2.2, tr.PtsDelta, 1e-9)
	assert.InDelta(t, 0.0, tr.RebDelta, 1e-9)
	assert.InDelta(t, 1.5, tr.AstDelta, 1e-9)
	require.NotNil(t, tr.FGPctDelta)
	assert.InDelta(t, 0.0, *tr.FGPctDelta, 1e-9)
}

func TestTrendsShortSeason(t *testing.T) {
	logs := seasonLogs()[:3]
	tr := Trends(logs)
	assert.InDelta(t, 0.0, tr.PtsDelta, 1e-9)
	assert.Equal(t, tr.SeasonPts, tr.RecentPts)
	assert.Equal(t, model.Trend{}, Trends(nil))
}

func TestCompare(t *testing.T) {
	players := []model.Player{
		{ID: 1, FullName: "Nikola Jokic", TeamAbbr: "DEN"},
		{ID: 2, FullName: "Bench Guy", TeamAbbr: "DEN"},
	}
	rows := Compare(players, map[int64][]model.GameLog{1: seasonLogs()})
	require.Len(t, rows, 1)
	assert.Equal(t, "Nikola Jokic", rows[0].FullName)
	assert.Equal(t, 8, rows[0].GP)
}

func TestCompareSamePlayerTwice(t *testing.T) {
	jokic := model.Player{ID: 1, FullName: "Nikola Jokic", TeamAbbr: "DEN"}
	rows := Compare([]model.Player{jokic, jokic}, map[int64][]model.GameLog{1: seasonLogs()})
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].PlayerID)
}

func TestShotZoneSummary(t *testing.T) {
	shots := []model.Shot{
		{ShotZone: "Center(C)", ShotZoneBasic: "Restricted Area", Made: true},
		{ShotZone: "Center(C)", ShotZoneBasic: "Restricted Area", Made: true},
		{ShotZone: "Center(C)", ShotZoneBasic: "Restricted Area", Made: false},
		{ShotZone: "Left Side(L)", ShotZoneBasic: "Left Corner 3", Made: false},
	}
	zones := ShotZoneSummary(shots)
	require.Len(t, zones, 2)
	assert.Equal(t, "Restricted Area", zones[0].ZoneBasic)
	assert.Equal(t, 3, zones[0].Attempts)
	assert.Equal(t, 2, zones[0].Makes)
	assert.InDelta(t, 66.7, zones[0].Pct, 1e-9)
	assert.InDelta(t, 0.0, zones[1].Pct, 1e-9)
}
