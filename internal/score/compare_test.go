package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-report-engine/internal/types"
)

func TestCompareHitAndMiss(t *testing.T) {
	levels := []types.ForecastLevel{
		{Name: "R1", Price: 450, Type: types.LevelResistance},
		{Name: "S1", Price: 430, Type: types.LevelSupport},
	}
	realized := types.PriceRange{Open: 442, High: 451, Low: 440, Close: 448}

	outcomes, err := Compare(levels, realized)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	byName := map[string]types.LevelOutcome{}
	for _, o := range outcomes {
		byName[o.Level.Name] = o
	}

	// High 451 reached the 450 resistance; overshoot shows as negative distance.
	assert.True(t, byName["R1"].Hit)
	assert.InDelta(t, -1.0, byName["R1"].Distance, 1e-9)

	// Low 440 never reached the 430 support; 10 points of gap remain.
	assert.False(t, byName["S1"].Hit)
	assert.InDelta(t, 10.0, byName["S1"].Distance, 1e-9)
}

func TestCompareRanksNearestToClose(t *testing.T) {
	levels := []types.ForecastLevel{
		{Name: "far resistance", Price: 470, Type: types.LevelResistance},
		{Name: "near resistance", Price: 450, Type: types.LevelResistance},
		{Name: "near support", Price: 445, Type: types.LevelSupport},
	}
	outcomes, err := Compare(levels, types.PriceRange{Open: 442, High: 451, Low: 440, Close: 448})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.Equal(t, "near resistance", outcomes[0].Level.Name) // 2 points from close
	assert.Equal(t, "near support", outcomes[1].Level.Name)    // 3 points from close
	assert.Equal(t, "far resistance", outcomes[2].Level.Name)
}

func TestCompareEquidistantRanksLowerPriceFirst(t *testing.T) {
	levels := []types.ForecastLevel{
		{Name: "above", Price: 453, Type: types.LevelResistance},
		{Name: "below", Price: 443, Type: types.LevelSupport},
	}
	outcomes, err := Compare(levels, types.PriceRange{Open: 442, High: 451, Low: 440, Close: 448})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, "below", outcomes[0].Level.Name)
	assert.Equal(t, "above", outcomes[1].Level.Name)
}

func TestCompareDedupesSameTypeAndPrice(t *testing.T) {
	levels := []types.ForecastLevel{
		{Name: "R1", Price: 450, Type: types.LevelResistance},
		{Name: "ceiling", Price: 450, Type: types.LevelResistance},
		{Name: "S1", Price: 450, Type: types.LevelSupport},
	}
	outcomes, err := Compare(levels, types.PriceRange{Open: 442, High: 451, Low: 440, Close: 448})
	require.NoError(t, err)
	// Same price twice as resistance collapses; the support at the same
	// price is a distinct forecast.
	require.Len(t, outcomes, 2)
}

func TestCompareSkipsNonPositiveLevels(t *testing.T) {
	levels := []types.ForecastLevel{
		{Name: "bad", Price: 0, Type: types.LevelSupport},
		{Name: "S1", Price: 440, Type: types.LevelSupport},
	}
	outcomes, err := Compare(levels, types.PriceRange{Open: 442, High: 451, Low: 439, Close: 448})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, "S1", outcomes[0].Level.Name)
	assert.True(t, outcomes[0].Hit)
}

func TestCompareRejectsMalformedRange(t *testing.T) {
	levels := []types.ForecastLevel{{Name: "R1", Price: 450, Type: types.LevelResistance}}

	_, err := Compare(levels, types.PriceRange{High: 0, Low: 440, Close: 445})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive")

	_, err = Compare(levels, types.PriceRange{High: 430, Low: 440, Close: 435})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below low")
}

func TestLevelsFromDaily(t *testing.T) {
	r := &types.DailyReport{
		Mode:        types.ModeGreen,
		Price:       types.DailyPrice{Close: 6645},
		MasterEject: &types.MasterEject{Price: 6580, Action: "flat"},
		Alerts: []types.Alert{
			{Direction: types.DirectionUpside, LevelName: "R1", Price: 6700},
			{Direction: types.DirectionDownside, LevelName: "S1", Price: 6601},
		},
		Levels: map[string]types.LevelEntry{
			"Pivot": {Price: 6633, Action: "watch"},
			"POC":   {Price: 6660, Action: "magnet"},
		},
	}

	levels := LevelsFromDaily(r)
	require.Len(t, levels, 4)

	assert.Equal(t, types.ForecastLevel{Name: "R1", Price: 6700, Type: types.LevelResistance}, levels[0])
	assert.Equal(t, types.ForecastLevel{Name: "S1", Price: 6601, Type: types.LevelSupport}, levels[1])
	// Named levels classify by their side of the close, in name order.
	assert.Equal(t, types.ForecastLevel{Name: "POC", Price: 6660, Type: types.LevelResistance}, levels[2])
	assert.Equal(t, types.ForecastLevel{Name: "Pivot", Price: 6633, Type: types.LevelSupport}, levels[3])

	// The master eject never appears as a forecast level.
	for _, lv := range levels {
		assert.NotEqual(t, 6580.0, lv.Price)
	}
}
