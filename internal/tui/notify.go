package tui

import "strconv"

// badgeclamp caps the displayed count; beyond it the badge reads "99+".
const badgeClamp = 99

func badgeLabel(n int) string {
	if n > badgeClamp {
		return "99+"
	}
	return strconv.Itoa(n)
}
