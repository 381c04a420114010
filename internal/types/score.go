package types

import "time"

// LevelType tells which side a forecast level defends.
type LevelType string

const (
	LevelSupport    LevelType = "support"
	LevelResistance LevelType = "resistance"
)

// ForecastLevel is a named, priced support or resistance threshold derived
// from a report's alerts and levels map.
type ForecastLevel struct {
	Name  string    `json:"name"`
	Price float64   `json:"price"`
	Type  LevelType `json:"type"`
}

// PriceRange is the realized OHLC of one trading day, sourced externally.
type PriceRange struct {
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// LevelOutcome is the scored result of one forecast level against the
// realized range. Distance is signed: negative on a hit means overshoot,
// positive on a miss is how far away the level stayed.
type LevelOutcome struct {
	Level    ForecastLevel `json:"level"`
	Hit      bool          `json:"hit"`
	Distance float64       `json:"distance"`
}

// ModeAssessment is the verdict on the day's risk-regime call itself,
// independent of level accuracy.
type ModeAssessment string

const (
	ModeCorrect   ModeAssessment = "Correct"
	ModeIncorrect ModeAssessment = "Incorrect"
)

// DayAccuracy is the per-day forecast score.
type DayAccuracy struct {
	Date           time.Time      `json:"date"`
	Levels         []LevelOutcome `json:"levels"`
	AccuracyPct    float64        `json:"accuracy_pct"`
	RangePct       float64        `json:"range_pct"`
	ModeAssessment ModeAssessment `json:"mode_assessment"`
}

// WeekScorecard is the weekly rollup across all scored trading days.
type WeekScorecard struct {
	WeekLabel            string        `json:"week_label"`
	TradingDays          []DayAccuracy `json:"trading_days"`
	WeeklyScore          float64       `json:"weekly_score"`
	OverallLevelAccuracy float64       `json:"overall_level_accuracy"`
	BestDay              time.Time     `json:"best_day"`
	WorstDay             time.Time     `json:"worst_day"`
}
