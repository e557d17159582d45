package workflow

import (
	"strings"

	"loandesk-cli/internal/model"
)

// NormalizeStatus maps a raw wire status to its canonical bucket.
//
// Uppercased and trimmed before matching. "PENDING APPROVAL" (space form) and
// "PENDING_APPROVAL" are the same bucket; REVERT/REVERTED fold to REVERTED.
// Anything else, including empty, is treated as NEW.
func NormalizeStatus(s string) model.Status {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PENDING":
		return model.StatusPending
	case "PENDING APPROVAL", "PENDING_APPROVAL":
		return model.StatusPendingApproval
	case "APPROVED":
		return model.StatusApproved
	case "REVERT", "REVERTED":
		return model.StatusReverted
	default:
		return model.StatusNew
	}
}

// NormalizeStage lowercases and trims a stage name for matching. Stage is
// free text on the wire; an empty stage matches region wildcards.
func NormalizeStage(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidRevertTarget reports whether a stage name (any case) is one of the
// fixed rewind targets.
func ValidRevertTarget(stage string) bool {
	for _, s := range model.RevertTargets() {
		if strings.EqualFold(strings.TrimSpace(stage), string(s)) {
			return true
		}
	}
	return false
}
