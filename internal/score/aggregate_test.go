package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-report-engine/internal/types"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func outcomes(hits, total int) []types.LevelOutcome {
	out := make([]types.LevelOutcome, total)
	for i := range out {
		out[i].Hit = i < hits
	}
	return out
}

func TestScoreDayAccuracy(t *testing.T) {
	s := NewScorer(nil)
	da := s.ScoreDay(day(27), outcomes(3, 4), types.ModeGreen, nil,
		types.PriceRange{Open: 400, High: 410, Low: 398, Close: 405})
	assert.InDelta(t, 75.0, da.AccuracyPct, 1e-9)
	assert.Equal(t, day(27), da.Date)
}

func TestScoreDayNoLevelsScoresZero(t *testing.T) {
	s := NewScorer(nil)
	da := s.ScoreDay(day(27), nil, types.ModeGreen, nil,
		types.PriceRange{Open: 400, High: 410, Low: 398, Close: 405})
	assert.Zero(t, da.AccuracyPct)
}

func TestScoreDayModeAssessment(t *testing.T) {
	s := NewScorer(nil)

	// Range (410-398)/400 = 3% sits inside the 15% YELLOW cap.
	da := s.ScoreDay(day(27), nil, types.ModeYellow, nil,
		types.PriceRange{Open: 400, High: 410, Low: 398, Close: 405})
	assert.InDelta(t, 3.0, da.RangePct, 1e-9)
	assert.Equal(t, types.ModeCorrect, da.ModeAssessment)

	// Range (430-395)/400 = 8.75% blows through the 5% RED cap.
	da = s.ScoreDay(day(28), nil, types.ModeRed, nil,
		types.PriceRange{Open: 400, High: 430, Low: 395, Close: 420})
	assert.InDelta(t, 8.75, da.RangePct, 1e-9)
	assert.Equal(t, types.ModeIncorrect, da.ModeAssessment)
}

func TestScoreDayCapOverride(t *testing.T) {
	s := NewScorer(nil)
	override := 10.0

	// 8.75% fails the RED table cap but passes the report's own 10% cap.
	da := s.ScoreDay(day(28), nil, types.ModeRed, &override,
		types.PriceRange{Open: 400, High: 430, Low: 395, Close: 420})
	assert.Equal(t, types.ModeCorrect, da.ModeAssessment)
}

func TestScoreDayCustomCaps(t *testing.T) {
	s := NewScorer(map[types.Mode]float64{types.ModeGreen: 2})
	da := s.ScoreDay(day(27), nil, types.ModeGreen, nil,
		types.PriceRange{Open: 400, High: 410, Low: 398, Close: 405})
	assert.Equal(t, types.ModeIncorrect, da.ModeAssessment)
}

func TestAggregateWeekPoolsLevels(t *testing.T) {
	s := NewScorer(nil)
	days := []types.DayAccuracy{
		{Date: day(24), Levels: outcomes(3, 3), AccuracyPct: 100, ModeAssessment: types.ModeCorrect},
		{Date: day(25), Levels: outcomes(0, 1), AccuracyPct: 0, ModeAssessment: types.ModeCorrect},
	}
	card := s.AggregateWeek("Week of 2026-08-24", days)

	// 3 hits out of 4 pooled levels is 75%, not the 50% a mean of the two
	// daily percentages would give.
	assert.InDelta(t, 75.0, card.OverallLevelAccuracy, 1e-9)
	assert.InDelta(t, 0.7*75+0.3*100, card.WeeklyScore, 1e-9)
	assert.Equal(t, "Week of 2026-08-24", card.WeekLabel)
}

func TestAggregateWeekComposite(t *testing.T) {
	s := NewScorer(nil)
	days := []types.DayAccuracy{
		{Date: day(24), Levels: outcomes(1, 2), AccuracyPct: 50, ModeAssessment: types.ModeCorrect},
		{Date: day(25), Levels: outcomes(1, 2), AccuracyPct: 50, ModeAssessment: types.ModeIncorrect},
	}
	card := s.AggregateWeek("Week of 2026-08-24", days)
	assert.InDelta(t, 50.0, card.OverallLevelAccuracy, 1e-9)
	assert.InDelta(t, 0.7*50+0.3*50, card.WeeklyScore, 1e-9)
}

func TestAggregateWeekBestWorstTieBreaksEarliest(t *testing.T) {
	s := NewScorer(nil)
	days := []types.DayAccuracy{
		{Date: day(26), Levels: outcomes(2, 2), AccuracyPct: 100},
		{Date: day(24), Levels: outcomes(2, 2), AccuracyPct: 100},
		{Date: day(25), Levels: outcomes(0, 2), AccuracyPct: 0},
		{Date: day(27), Levels: outcomes(0, 2), AccuracyPct: 0},
	}
	card := s.AggregateWeek("Week of 2026-08-24", days)
	assert.Equal(t, day(24), card.BestDay)
	assert.Equal(t, day(25), card.WorstDay)
}

func TestAggregateWeekOrdersDaysByDate(t *testing.T) {
	s := NewScorer(nil)
	days := []types.DayAccuracy{
		{Date: day(26), Levels: outcomes(1, 1), AccuracyPct: 100},
		{Date: day(24), Levels: outcomes(1, 1), AccuracyPct: 100},
	}
	card := s.AggregateWeek("Week of 2026-08-24", days)
	require.Len(t, card.TradingDays, 2)
	assert.Equal(t, day(24), card.TradingDays[0].Date)
	assert.Equal(t, day(26), card.TradingDays[1].Date)
}

func TestAggregateWeekEmpty(t *testing.T) {
	card := NewScorer(nil).AggregateWeek("Week of 2026-08-24", nil)
	assert.Zero(t, card.WeeklyScore)
	assert.Zero(t, card.OverallLevelAccuracy)
	assert.Empty(t, card.TradingDays)
	assert.True(t, card.BestDay.IsZero())
}
