package risk

import (
	"strings"

	"github.com/petalsafe/petalsafe-backend/internal/model"
)

// keywords is the fixed distress lexicon. Matching is case-insensitive
// substring, not whole-word: overlapping stems such as "scare"/"scared"
// both count. Over-counting is acceptable, a missed signal is not.
var keywords = []string{
	"danger",
	"hurt",
	"afraid",
	"scared",
	"scare",
	"threat",
	"abuse",
	"help",
	"need",
	"need help",
	"kill",
	"weapon",
	"stalk",
	"follow",
	"trapped",
	"unsafe",
	"emergency",
}

// MaxScore caps the journal risk score.
const MaxScore = 10

// ScanEntry scores free text against the distress lexicon. A text with no
// matches scores 1; otherwise the score is twice the number of distinct
// matching keywords, capped at MaxScore. The detected keywords are returned
// in lexicon order.
func ScanEntry(text string) (int, []string) {
	lower := strings.ToLower(text)

	var detected []string
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			detected = append(detected, kw)
		}
	}

	if len(detected) == 0 {
		return 1, nil
	}
	score := 2 * len(detected)
	if score > MaxScore {
		score = MaxScore
	}
	return score, detected
}

// JournalLevel maps a journal risk score to the level it escalates the
// account to. Sub-threshold scores map to GREEN, which never downgrades
// anything through MaxLevel.
func JournalLevel(score int) model.RiskLevel {
	switch {
	case score >= 8:
		return model.RiskRed
	case score >= 5:
		return model.RiskYellow
	default:
		return model.RiskGreen
	}
}

