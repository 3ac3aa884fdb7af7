// Package alert delivers guardian notifications. The safety monitor treats
// delivery as fire-and-forget but waits for confirmation before latching
// the per-episode alert flag; retry policy lives here, not in the monitor.
package alert

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/petalsafe/petalsafe-backend/internal/model"
)

// Dispatcher sends a guardian notification for an account. A nil return
// means confirmed delivery to the channel.
type Dispatcher interface {
	Notify(ctx context.Context, accountID string, level model.RiskLevel) error
}

// Noop is used when no guardian channel is configured. It logs the alert at
// warn level and reports success so local development still exercises the
// episode latch.
type Noop struct {
	Log zerolog.Logger
}

func (n *Noop) Notify(_ context.Context, accountID string, level model.RiskLevel) error {
	n.Log.Warn().
		Str("account_id", accountID).
		Str("risk_level", string(level)).
		Msg("guardian alert channel not configured; alert dropped")
	return nil
}
