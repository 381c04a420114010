package interfaces

import (
	"context"
	"time"

	"trade-report-engine/internal/types"
)

// ReportStore persists raw documents, extracted records and scores. The core
// transforms never touch it directly; only the engine does.
type ReportStore interface {
	SaveRaw(ctx context.Context, raw types.RawReport) error
	SaveDaily(ctx context.Context, r *types.DailyReport, warnings []types.Warning) error
	GetDaily(ctx context.Context, date time.Time) (*types.DailyReport, []types.Warning, error)
	// SaveWeekly upserts on (week_start, week_end).
	SaveWeekly(ctx context.Context, r *types.WeeklyReport, warnings []types.Warning) error
	GetWeekly(ctx context.Context, weekStart time.Time) (*types.WeeklyReport, []types.Warning, error)
	SaveDayScore(ctx context.Context, da types.DayAccuracy) error
	GetDayScore(ctx context.Context, date time.Time) (*types.DayAccuracy, error)
	DayScoresBetween(ctx context.Context, from, to time.Time) ([]types.DayAccuracy, error)
	SaveWeekScore(ctx context.Context, card types.WeekScorecard) error
	GetWeekScore(ctx context.Context, label string) (*types.WeekScorecard, error)
	Close() error
}

// NotFoundError is returned by store lookups for absent keys. Declared here
// so callers do not import the storage implementation.
type NotFoundError struct{ Key string }

func (e *NotFoundError) Error() string { return "not found: " + e.Key }
