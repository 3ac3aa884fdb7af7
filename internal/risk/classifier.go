// Package risk holds the pure scoring functions: the silence classifier,
// the journal threat scanner, and the severity reducer every writer of
// Account.RiskLevel must go through.
package risk

import (
	"time"

	"github.com/petalsafe/petalsafe-backend/internal/model"
)

// Silence thresholds. Boundaries are exclusive on the low side: exactly six
// hours of silence is still GREEN.
const (
	ElevatedAfter        = 6 * time.Hour
	CriticalAfter        = 12 * time.Hour
	CriticalSilenceAfter = 24 * time.Hour
)

// ClassifySilence maps an elapsed silence duration to a risk level. It is a
// total, deterministic, monotonic step function of the duration; nothing
// else influences the result.
func ClassifySilence(silence time.Duration) model.RiskLevel {
	switch {
	case silence > CriticalSilenceAfter:
		return model.RiskBlack
	case silence > CriticalAfter:
		return model.RiskRed
	case silence > ElevatedAfter:
		return model.RiskYellow
	default:
		return model.RiskGreen
	}
}

// MaxLevel returns the more severe of two levels. Risk escalation is
// monotonic: the silence classifier and the journal scanner both feed the
// same field, and whichever produced the more severe classification wins.
func MaxLevel(a, b model.RiskLevel) model.RiskLevel {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}
