package score

import (
	"fmt"
	"math"
	"sort"

	"trade-report-engine/internal/types"
)

// LevelsFromDaily derives forecast levels from a daily report. Upside alerts
// become resistance, downside alerts support; named map levels are classified
// by their side of the close. The master eject is a stop, not a forecast,
// and is excluded.
func LevelsFromDaily(r *types.DailyReport) []types.ForecastLevel {
	var levels []types.ForecastLevel
	for _, a := range r.Alerts {
		t := types.LevelResistance
		if a.Direction == types.DirectionDownside {
			t = types.LevelSupport
		}
		levels = append(levels, types.ForecastLevel{Name: a.LevelName, Price: a.Price, Type: t})
	}

	names := make([]string, 0, len(r.Levels))
	for name := range r.Levels {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entry := r.Levels[name]
		t := types.LevelSupport
		if entry.Price > r.Price.Close {
			t = types.LevelResistance
		}
		levels = append(levels, types.ForecastLevel{Name: name, Price: entry.Price, Type: t})
	}
	return levels
}

// Compare scores each forecast level against the realized range. Malformed
// input is rejected outright; the comparator must never silently produce a
// nonsensical outcome.
//
// A resistance hits when the realized high reaches it, a support when the
// realized low reaches it. Distance is signed against the nearer boundary:
// negative on a hit means overshoot, positive on a miss is the gap left.
// Output is deduplicated and ranked nearest-to-close first, so "R1"/"S1"
// presentation always refers to the nearest level regardless of source order.
func Compare(levels []types.ForecastLevel, realized types.PriceRange) ([]types.LevelOutcome, error) {
	if realized.High <= 0 || realized.Low <= 0 {
		return nil, fmt.Errorf("realized range must be positive, got high=%.2f low=%.2f", realized.High, realized.Low)
	}
	if realized.High < realized.Low {
		return nil, fmt.Errorf("realized high %.2f below low %.2f", realized.High, realized.Low)
	}

	type key struct {
		t     types.LevelType
		price float64
	}
	seen := map[key]bool{}
	outcomes := make([]types.LevelOutcome, 0, len(levels))
	for _, lv := range levels {
		k := key{lv.Type, lv.Price}
		if lv.Price <= 0 || seen[k] {
			continue
		}
		seen[k] = true

		var hit bool
		var distance float64
		if lv.Type == types.LevelResistance {
			hit = realized.High >= lv.Price
			distance = lv.Price - realized.High
		} else {
			hit = realized.Low <= lv.Price
			distance = realized.Low - lv.Price
		}
		outcomes = append(outcomes, types.LevelOutcome{Level: lv, Hit: hit, Distance: distance})
	}

	ref := realized.Close
	sort.SliceStable(outcomes, func(i, j int) bool {
		di := math.Abs(outcomes[i].Level.Price - ref)
		dj := math.Abs(outcomes[j].Level.Price - ref)
		if di != dj {
			return di < dj
		}
		return outcomes[i].Level.Price < outcomes[j].Level.Price
	})
	return outcomes, nil
}
