package types

import "time"

// ReportKind discriminates the two known report templates.
type ReportKind string

const (
	KindDaily  ReportKind = "daily"
	KindWeekly ReportKind = "weekly"
)

// RawReport is the immutable ingestion input. It is retained verbatim so a
// record can be re-parsed when extraction rules change.
type RawReport struct {
	Text string     `json:"text"`
	Date time.Time  `json:"date"`
	Kind ReportKind `json:"kind"`
}

// Mode is the coarse daily risk regime called by a report.
type Mode string

const (
	ModeGreen  Mode = "GREEN"
	ModeYellow Mode = "YELLOW"
	ModeOrange Mode = "ORANGE"
	ModeRed    Mode = "RED"
)

// Severity classifies a parse warning. Soft warnings leave the record
// acceptable; hard warnings are promoted to blocking errors by the validator.
type Severity string

const (
	SeveritySoft Severity = "soft"
	SeverityHard Severity = "hard"
)

// Warning records a single extraction problem, one per unmatched field.
type Warning struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// AlertDirection tells which side of the current price an alert watches.
type AlertDirection string

const (
	DirectionUpside   AlertDirection = "upside"
	DirectionDownside AlertDirection = "downside"
)

// Alert is one entry of a daily report's alert list.
type Alert struct {
	Direction AlertDirection `json:"direction"`
	LevelName string         `json:"level_name"`
	Price     float64        `json:"price"`
	Action    string         `json:"action"`
	Reason    string         `json:"reason,omitempty"`
}

// MasterEject is the single capital-protection stop for the session.
type MasterEject struct {
	Price  float64 `json:"price" validate:"required,gt=0"`
	Action string  `json:"action"`
}

// DailyPrice carries the price snapshot of a daily report. High, low and
// volume are optional in the source template.
type DailyPrice struct {
	Close     float64  `json:"close"`
	ChangePct float64  `json:"change_pct"`
	High      *float64 `json:"high,omitempty"`
	Low       *float64 `json:"low,omitempty"`
	Volume    *float64 `json:"volume,omitempty"`
}

// LevelEntry is an arbitrary named price level with its action text.
type LevelEntry struct {
	Price  float64 `json:"price"`
	Action string  `json:"action"`
}

// DailyReport is the structured form of one daily trading report.
// It is immutable once validated; re-parses produce a new record.
type DailyReport struct {
	Date        time.Time             `json:"date"`
	Mode        Mode                  `json:"mode" validate:"required"`
	DailyCapPct *float64              `json:"daily_cap_pct,omitempty"`
	Price       DailyPrice            `json:"price"`
	MasterEject *MasterEject          `json:"master_eject" validate:"required"`
	Alerts      []Alert               `json:"alerts"`
	Levels      map[string]LevelEntry `json:"levels_map"`
	Positioning string                `json:"positioning"`
}
