package weekly

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-report-engine/internal/types"
)

const fullReport = `Week of 2026-08-24 to 2026-08-28

## Weekly Candle
Opened 6,580, high 6,700, low 6,540
Closed at 6,645 (+1.2% on the week)

## Monthly Timeframe
Signal: green
Trend: higher highs and higher lows
MA: price above the 10-month average
Read: long-term uptrend intact

## Weekly Timeframe
Signal: yellow
Pattern: inside week
Moving averages: riding the 10-week
Read: consolidation after the run

## Daily Timeframe
Signal: red
Trend: lower highs into Friday
MA: below the 21-day
Read: short-term pressure

## Key Levels
🛡️ Support shelf: 6,520 — buyers defended twice
🚀 Breakout line: 6,700 — weekly closes above open the door

## Thesis Check
Status: intact
Supporting:
- breadth held up
- credit spreads quiet
Concerning:
- leadership narrowing
The core thesis survives the week.

## Scenarios
Bull case — 30%
Trigger: break above 6,700 on volume
Response: add risk toward 6,800
Base case — 50%: chop between 6,540 and 6,700
Bear case — 20%
Trigger: lose 6,520
Response: flatten the book

## Lessons
What worked:
- respecting the eject level
What didn't:
- chasing Monday's gap
Lessons forward:
- wait for the second test

## Catalysts
- 2026-09-04: jobs report (high impact)
- Sep 9, 2026: CPI print
`

func TestParseFullWeekly(t *testing.T) {
	r, warns := New().Parse(fullReport)

	assert.Equal(t, ParserVersion, r.ParserVersion)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), r.WeekStart)
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), r.WeekEnd)

	assert.Equal(t, 6580.0, r.Candle.Open)
	assert.Equal(t, 6700.0, r.Candle.High)
	assert.Equal(t, 6540.0, r.Candle.Low)
	assert.Equal(t, 6645.0, r.Candle.Close)
	assert.Equal(t, 1.2, r.Candle.ChangePct)

	require.NotNil(t, r.Monthly)
	assert.Equal(t, types.SignalGreen, r.Monthly.Signal)
	assert.Equal(t, "higher highs and higher lows", r.Monthly.Pattern)
	assert.Equal(t, "price above the 10-month average", r.Monthly.MAPosition)
	assert.Equal(t, "long-term uptrend intact", r.Monthly.Interpretation)

	require.NotNil(t, r.Weekly)
	assert.Equal(t, types.SignalYellow, r.Weekly.Signal)
	assert.Equal(t, "inside week", r.Weekly.Pattern)

	require.NotNil(t, r.Daily)
	assert.Equal(t, types.SignalRed, r.Daily.Signal)

	require.Len(t, r.KeyLevels, 2)
	assert.Equal(t, "Support shelf", r.KeyLevels[0].Name)
	assert.Equal(t, 6520.0, r.KeyLevels[0].Price)
	assert.Equal(t, "🛡️", r.KeyLevels[0].Tag)
	assert.Equal(t, "Breakout line", r.KeyLevels[1].Name)

	require.NotNil(t, r.Thesis)
	assert.Equal(t, types.ThesisIntact, r.Thesis.Status)
	assert.Equal(t, []string{"breadth held up", "credit spreads quiet"}, r.Thesis.Supporting)
	assert.Equal(t, []string{"leadership narrowing"}, r.Thesis.Concerning)
	assert.Contains(t, r.Thesis.Narrative, "core thesis survives")

	require.Len(t, r.Scenarios, 3)
	assert.Equal(t, types.Scenario{
		Kind:        types.ScenarioBull,
		Probability: 30,
		Trigger:     "break above 6,700 on volume",
		Response:    "add risk toward 6,800",
	}, r.Scenarios[0])
	assert.Equal(t, types.ScenarioBase, r.Scenarios[1].Kind)
	assert.Equal(t, 50.0, r.Scenarios[1].Probability)
	assert.Equal(t, "chop between 6,540 and 6,700", r.Scenarios[1].Trigger)
	assert.Equal(t, types.ScenarioBear, r.Scenarios[2].Kind)

	assert.Equal(t, []string{"respecting the eject level"}, r.Lessons.WhatWorked)
	assert.Equal(t, []string{"chasing Monday's gap"}, r.Lessons.WhatDidnt)
	assert.Equal(t, []string{"wait for the second test"}, r.Lessons.LessonsForward)

	require.Len(t, r.Catalysts, 2)
	assert.Equal(t, time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC), r.Catalysts[0].Date)
	assert.Equal(t, "jobs report", r.Catalysts[0].Event)
	assert.Equal(t, "high impact", r.Catalysts[0].Impact)
	assert.Equal(t, "CPI print", r.Catalysts[1].Event)
	assert.Empty(t, r.Catalysts[1].Impact)

	assert.Empty(t, warns)
}

func TestParseMissingScenariosOmitted(t *testing.T) {
	doc := `Week of 2026-08-24

## Scenarios
Bull case — 60%: squeeze continues
`
	r, warns := New().Parse(doc)
	require.Len(t, r.Scenarios, 1)
	assert.Equal(t, types.ScenarioBull, r.Scenarios[0].Kind)
	// Missing base/bear blocks are omitted, not padded.
	for _, w := range warns {
		assert.NotEqual(t, "week_start", w.Field)
	}
}

func TestParseWeekOfImpliesFriday(t *testing.T) {
	r, _ := New().Parse("Week of 2026-08-24\n")
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), r.WeekStart)
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), r.WeekEnd)
}

func TestParseMissingWeekRangeHardWarning(t *testing.T) {
	_, warns := New().Parse("## Weekly Candle\nclosed at 6,645\n")
	found := false
	for _, w := range warns {
		if w.Field == "week_start" {
			found = true
			assert.Equal(t, types.SeverityHard, w.Severity)
		}
	}
	assert.True(t, found)
}

func TestParseScenarioProbabilitiesNotNormalized(t *testing.T) {
	doc := `Week of 2026-08-24

## Scenarios
Bull case — 70%: up
Bear case — 70%: down
`
	r, _ := New().Parse(doc)
	require.Len(t, r.Scenarios, 2)
	// The parser records probabilities as written; it does not force a sum.
	assert.Equal(t, 70.0, r.Scenarios[0].Probability)
	assert.Equal(t, 70.0, r.Scenarios[1].Probability)
}
