package score

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"trade-report-engine/internal/types"
)

// DefaultModeCaps maps each mode to its maximum expected daily range as a
// percentage of the open. The table validates the regime call itself, not
// the level targets.
var DefaultModeCaps = map[types.Mode]float64{
	types.ModeGreen:  25,
	types.ModeYellow: 15,
	types.ModeOrange: 10,
	types.ModeRed:    5,
}

// Weekly composite weights. Level accuracy dominates; the mode call is a
// secondary signal.
const (
	weightLevels   = 0.7
	weightModeCall = 0.3
)

// Scorer reduces level outcomes into daily and weekly accuracy scores.
type Scorer struct {
	caps map[types.Mode]float64
}

// NewScorer returns a scorer with the given cap table; nil selects
// DefaultModeCaps.
func NewScorer(caps map[types.Mode]float64) *Scorer {
	if caps == nil {
		caps = DefaultModeCaps
	}
	return &Scorer{caps: caps}
}

// ScoreDay reduces one day's level outcomes into a DayAccuracy. A day with
// no levels scores 0, never a division fault. capOverride lets a report that
// states its own daily cap supersede the table.
func (s *Scorer) ScoreDay(date time.Time, outcomes []types.LevelOutcome, mode types.Mode, capOverride *float64, realized types.PriceRange) types.DayAccuracy {
	da := types.DayAccuracy{Date: date, Levels: outcomes}

	hits := 0
	for _, o := range outcomes {
		if o.Hit {
			hits++
		}
	}
	if len(outcomes) > 0 {
		da.AccuracyPct = float64(hits) / float64(len(outcomes)) * 100
	}

	da.RangePct = rangePct(realized)
	capPct, ok := s.caps[mode]
	if capOverride != nil {
		capPct, ok = *capOverride, true
	}
	if ok && da.RangePct <= capPct {
		da.ModeAssessment = types.ModeCorrect
	} else {
		da.ModeAssessment = types.ModeIncorrect
	}
	return da
}

// rangePct computes (high-low)/open*100. Decimal arithmetic keeps values
// like 8.75 exact for threshold comparison.
func rangePct(r types.PriceRange) float64 {
	if r.Open <= 0 {
		return 0
	}
	high := decimal.NewFromFloat(r.High)
	low := decimal.NewFromFloat(r.Low)
	open := decimal.NewFromFloat(r.Open)
	pct, _ := high.Sub(low).Div(open).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// AggregateWeek rolls a week of daily scores into one scorecard.
//
// Overall level accuracy is computed over the pooled hits of every level in
// the week, not as a mean of daily percentages, so a day with few levels
// does not get over-weighted. The weekly score is a fixed-weight composite
// of level accuracy and mode-call correctness. Best and worst day tie-break
// to the earliest date.
func (s *Scorer) AggregateWeek(label string, days []types.DayAccuracy) types.WeekScorecard {
	card := types.WeekScorecard{WeekLabel: label, TradingDays: days}
	if len(days) == 0 {
		return card
	}

	ordered := make([]types.DayAccuracy, len(days))
	copy(ordered, days)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})
	card.TradingDays = ordered

	totalLevels, totalHits, modeCorrect := 0, 0, 0
	best, worst := ordered[0], ordered[0]
	for _, d := range ordered {
		totalLevels += len(d.Levels)
		for _, o := range d.Levels {
			if o.Hit {
				totalHits++
			}
		}
		if d.ModeAssessment == types.ModeCorrect {
			modeCorrect++
		}
		if d.AccuracyPct > best.AccuracyPct {
			best = d
		}
		if d.AccuracyPct < worst.AccuracyPct {
			worst = d
		}
	}

	if totalLevels > 0 {
		card.OverallLevelAccuracy = float64(totalHits) / float64(totalLevels) * 100
	}
	modeCorrectPct := float64(modeCorrect) / float64(len(ordered)) * 100
	card.WeeklyScore = weightLevels*card.OverallLevelAccuracy + weightModeCall*modeCorrectPct
	card.BestDay = best.Date
	card.WorstDay = worst.Date
	return card
}
