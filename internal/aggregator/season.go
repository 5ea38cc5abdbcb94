package aggregator

import (
	"cmp"
	"math"
	"slices"

	"github.com/pable/hoopstats/internal/model"
)

// RecentGames is the number of trailing games Trends compares against the season.
const RecentGames = 5

// SeasonAverages returns per-game means over logs, rounded to one decimal
// (three for shooting percentages). Percentage means skip games where the
// percentage is null and are nil when every game is null.
func SeasonAverages(logs []model.GameLog) model.SeasonAverages {
	m := rawMeans(logs)
	return model.SeasonAverages{
		PPG:       round(m.pts, 1),
		RPG:       round(m.reb, 1),
		APG:       round(m.ast, 1),
		TOPG:      round(m.tov, 1),
		PlusMinus: round(m.pm, 1),
		FGPct:     roundPtr(m.fgPct, 3),
		FG3Pct:    roundPtr(m.fg3Pct, 3),
		GP:        len(logs),
	}
}

// Trends compares the last RecentGames of logs to the whole season.
// logs must be in ascending date order. An empty season yields a zero Trend.
func Trends(logs []model.GameLog) model.Trend {
	if len(logs) == 0 {
		return model.Trend{}
	}
	season := rawMeans(logs)
	recent := rawMeans(logs[max(0, len(logs)-RecentGames):])

	t := model.Trend{
		PtsDelta:       round(recent.pts-season.pts, 1),
		RebDelta:       round(recent.reb-season.reb, 1),
		AstDelta:       round(recent.ast-season.ast, 1),
		PlusMinusDelta: round(recent.pm-season.pm, 1),
		SeasonPts:      round(season.pts, 1),
		RecentPts:      round(recent.pts, 1),
	}
	if season.fgPct != nil && recent.fgPct != nil {
		d := round(*recent.fgPct-*season.fgPct, 3)
		t.FGPctDelta = &d
	}
	return t
}

// Compare builds one comparison row per player that has logs, in the order
// the players are given. Players without games in the season are left out
// and a repeated player appears once.
func Compare(players []model.Player, logsByPlayer map[int64][]model.GameLog) []model.ComparisonRow {
	rows := make([]model.ComparisonRow, 0, len(players))
	seen := make(map[int64]bool, len(players))
	for _, p := range players {
		logs := logsByPlayer[p.ID]
		if len(logs) == 0 || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		rows = append(rows, model.ComparisonRow{
			PlayerID:       p.ID,
			FullName:       p.FullName,
			TeamAbbr:       p.TeamAbbr,
			SeasonAverages: SeasonAverages(logs),
		})
	}
	return rows
}

// ShotZoneSummary groups shots by (zone, basic zone), most attempted first.
// Pct is the make percentage rounded to one decimal.
func ShotZoneSummary(shots []model.Shot) []model.ShotZone {
	type key struct{ zone, basic string }
	idx := make(map[key]int)
	var zones []model.ShotZone
	for _, s := range shots {
		k := key{s.ShotZone, s.ShotZoneBasic}
		i, ok := idx[k]
		if !ok {
			i = len(zones)
			idx[k] = i
			zones = append(zones, model.ShotZone{Zone: s.ShotZone, ZoneBasic: s.ShotZoneBasic})
		}
		zones[i].Attempts++
		if s.Made {
			zones[i].Makes++
		}
	}
	for i := range zones {
		zones[i].Pct = round(100*float64(zones[i].Makes)/float64(zones[i].Attempts), 1)
	}
	slices.SortStableFunc(zones, func(a, b model.ShotZone) int {
		return cmp.Compare(b.Attempts, a.Attempts)
	})
	return zones
}

type means struct {
	pts, reb, ast, tov, pm float64
	fgPct, fg3Pct          *float64
}

func rawMeans(logs []model.GameLog) means {
	var m means
	if len(logs) == 0 {
		return m
	}
	var fgSum, fg3Sum float64
	var fgN, fg3N int
	for _, g := range logs {
		m.pts += g.Points
		m.reb += g.Rebounds
		m.ast += g.Assists
		m.tov += g.Turnovers
		m.pm += g.PlusMinus
		if g.FGPct != nil {
			fgSum += *g.FGPct
			fgN++
		}
		if g.FG3Pct != nil {
			fg3Sum += *g.FG3Pct
			fg3N++
		}
	}
	n := float64(len(logs))
	m.pts /= n
	m.reb /= n
	m.ast /= n
	m.tov /= n
	m.pm /= n
	if fgN > 0 {
		v := fgSum / float64(fgN)
		m.fgPct = &v
	}
	if fg3N > 0 {
		v := fg3Sum / float64(fg3N)
		m.fg3Pct = &v
	}
	return m
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

func roundPtr(x *float64, places int) *float64 {
	if x == nil {
		return nil
	}
	v := round(*x, places)
	return &v
}
