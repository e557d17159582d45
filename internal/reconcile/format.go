package reconcile

import (
	"fmt"
	"strings"
	"time"
)

// Cell formatting for application rows. These strings are the diff unit:
// a cell changes only when its formatted text changes, so formatting must be
// deterministic.

const missing = "N/A"

// FormatAmount renders an amount with exactly 2 decimal digits and thousands
// grouping. A missing amount renders as "0.00".
func FormatAmount(v *float64) string {
	if v == nil {
		return "0.00"
	}
	return groupThousands(fmt.Sprintf("%.2f", *v))
}

// FormatDate renders a date as M/D/YYYY, or "N/A" when absent.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return missing
	}
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

// FormatText renders free text, substituting "N/A" for empty values.
func FormatText(s string) string {
	if strings.TrimSpace(s) == "" {
		return missing
	}
	return s
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String()
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
