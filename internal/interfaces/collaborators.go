package interfaces

import (
	"context"
	"time"

	"trade-report-engine/internal/types"
)

// PriceSource hands the engine a fully-materialized realized range for a
// trading day. Implementations own their own concurrency and timeouts.
type PriceSource interface {
	DailyRange(ctx context.Context, date time.Time) (types.PriceRange, error)
}

// Notifier receives finished scores for downstream content generation.
type Notifier interface {
	DayScored(ctx context.Context, da types.DayAccuracy) error
	WeekScored(ctx context.Context, card types.WeekScorecard) error
}
