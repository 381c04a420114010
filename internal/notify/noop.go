package notify

import (
	"context"

	"trade-report-engine/internal/types"
)

// NoopNotifier is the fallback notifier used until an outbound channel
// (chat webhook, email) is wired up.
type NoopNotifier struct{}

// NewNoopNotifier returns a notifier that swallows every event.
func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (n *NoopNotifier) DayScored(ctx context.Context, da types.DayAccuracy) error { return nil }

func (n *NoopNotifier) WeekScored(ctx context.Context, card types.WeekScorecard) error { return nil }
