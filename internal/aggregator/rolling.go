package aggregator

import "github.com/pable/hoopstats/internal/model"

// DefaultWindows are the trailing window sizes computed when none are configured.
var DefaultWindows = []int{5, 10, 20}

// ftaFloor stands in for zero free-throw attempts in the efficiency denominator.
const ftaFloor = 0.001

// Efficiency returns the true-shooting style ratio
// points / (2 * (FGA + 0.44 * max(FTA, 0.001))).
// ok is false when the game had no shooting attempts, in which case the ratio is undefined.
func Efficiency(r model.GameRecord) (ts float64, ok bool) {
	if r.FieldGoalsAttempted == 0 && r.FreeThrowsAttempted == 0 {
		return 0, false
	}
	denom := 2 * (r.FieldGoalsAttempted + 0.44*max(r.FreeThrowsAttempted, ftaFloor))
	if denom <= 0 {
		return 0, false
	}
	return r.Points / denom, true
}

// Rolling computes trailing averages over every window size for one player's season.
//
// records must be sorted by game date ascending; the order is not checked.
// The result is grouped by window in the order given, each group holding one
// entry per record in input order. Duplicate and non-positive window sizes are skipped.
func Rolling(records []model.GameRecord, windows []int) []model.RollingAverage {
	if len(records) == 0 {
		return nil
	}
	eff := efficiencies(records)

	seen := make(map[int]bool, len(windows))
	out := make([]model.RollingAverage, 0, len(records)*len(windows))
	for _, w := range windows {
		if w <= 0 || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, rollingWindow(records, eff, w)...)
	}
	return out
}

// RollingWindow computes the trailing averages for a single window size.
func RollingWindow(records []model.GameRecord, window int) []model.RollingAverage {
	if len(records) == 0 || window <= 0 {
		return nil
	}
	return rollingWindow(records, efficiencies(records), window)
}

func efficiencies(records []model.GameRecord) []*float64 {
	eff := make([]*float64, len(records))
	for i, r := range records {
		if v, ok := Efficiency(r); ok {
			eff[i] = &v
		}
	}
	return eff
}

func rollingWindow(records []model.GameRecord, eff []*float64, w int) []model.RollingAverage {
	pts := newTrailingMean(w)
	reb := newTrailingMean(w)
	ast := newTrailingMean(w)
	pm := newTrailingMean(w)
	ts := newTrailingMean(w)

	out := make([]model.RollingAverage, len(records))
	for i, r := range records {
		pts.add(&r.Points)
		reb.add(&r.Rebounds)
		ast.add(&r.Assists)
		pm.add(&r.PlusMinus)
		ts.add(eff[i])

		out[i] = model.RollingAverage{
			PlayerID:      r.PlayerID,
			GameDate:      r.GameDate,
			WindowSize:    w,
			PointsAvg:     pts.value(),
			ReboundsAvg:   reb.value(),
			AssistsAvg:    ast.value(),
			EfficiencyAvg: ts.mean(),
			PlusMinusAvg:  pm.value(),
		}
	}
	return out
}
