package types

import "time"

// SignalColor is the traffic-light read of one timeframe tier.
type SignalColor string

const (
	SignalGreen  SignalColor = "green"
	SignalYellow SignalColor = "yellow"
	SignalRed    SignalColor = "red"
)

// TimeframeRead is the technical read of a single tier (monthly, weekly or
// daily) in a weekly report.
type TimeframeRead struct {
	Signal         SignalColor `json:"signal"`
	Pattern        string      `json:"pattern"`
	MAPosition     string      `json:"ma_position"`
	Interpretation string      `json:"interpretation"`
}

// WeeklyCandle is the aggregate OHLC of the covered week.
type WeeklyCandle struct {
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	ChangePct float64 `json:"change_pct"`
}

// KeyLevel is a named weekly price level with its display tag.
type KeyLevel struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Tag   string  `json:"tag,omitempty"`
}

// ThesisStatus is the standing of the running market thesis.
type ThesisStatus string

const (
	ThesisIntact        ThesisStatus = "intact"
	ThesisStrengthening ThesisStatus = "strengthening"
	ThesisWeakening     ThesisStatus = "weakening"
	ThesisUnderReview   ThesisStatus = "under_review"
)

// ThesisCheck captures the weekly thesis review.
type ThesisCheck struct {
	Status     ThesisStatus `json:"status"`
	Supporting []string     `json:"supporting,omitempty"`
	Concerning []string     `json:"concerning,omitempty"`
	Narrative  string       `json:"narrative,omitempty"`
}

// ScenarioKind names one of the three forward scenarios.
type ScenarioKind string

const (
	ScenarioBull ScenarioKind = "bull"
	ScenarioBase ScenarioKind = "base"
	ScenarioBear ScenarioKind = "bear"
)

// Scenario is one forward scenario block. Probabilities are independent
// fields and are not forced to sum to 100 across scenarios.
type Scenario struct {
	Kind        ScenarioKind `json:"kind"`
	Probability float64      `json:"probability"`
	Trigger     string       `json:"trigger"`
	Response    string       `json:"response,omitempty"`
}

// Lessons is the weekly retrospective.
type Lessons struct {
	WhatWorked     []string `json:"what_worked,omitempty"`
	WhatDidnt      []string `json:"what_didnt,omitempty"`
	LessonsForward []string `json:"lessons_forward,omitempty"`
}

// Catalyst is an upcoming dated event with optional expected impact.
type Catalyst struct {
	Date   time.Time `json:"date"`
	Event  string    `json:"event"`
	Impact string    `json:"impact,omitempty"`
}

// WeeklyReport is the structured form of one weekly report, covering a
// 5-trading-day window. One record exists per ISO week, upserted on
// (WeekStart, WeekEnd). ParserVersion identifies the extraction rules that
// produced it so historical records can be re-parsed safely.
type WeeklyReport struct {
	WeekStart     time.Time      `json:"week_start" validate:"required"`
	WeekEnd       time.Time      `json:"week_end" validate:"required"`
	Candle        WeeklyCandle   `json:"weekly_candle"`
	Monthly       *TimeframeRead `json:"monthly,omitempty"`
	Weekly        *TimeframeRead `json:"weekly,omitempty"`
	Daily         *TimeframeRead `json:"daily,omitempty"`
	KeyLevels     []KeyLevel     `json:"key_levels,omitempty"`
	Thesis        *ThesisCheck   `json:"thesis_check,omitempty"`
	Scenarios     []Scenario     `json:"scenarios,omitempty"`
	Lessons       Lessons        `json:"lessons"`
	Catalysts     []Catalyst     `json:"catalysts,omitempty"`
	ParserVersion string         `json:"parser_version"`
}
