package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"loandesk-cli/internal/model"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds,
// so everything goes through lipgloss.AdaptiveColor.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted  = ac("240", "243")
	colorAccent = ac("27", "62") // blue

	colorStatusNew      = ac("27", "33")   // blue
	colorStatusPending  = ac("166", "214") // orange
	colorStatusApproval = ac("91", "141")  // purple
	colorStatusApproved = ac("28", "40")   // green
	colorStatusReverted = ac("124", "203") // red

	styleTitle = lipgloss.NewStyle().Bold(true)
	styleMuted = lipgloss.NewStyle().Foreground(colorMuted)

	styleTabActive = lipgloss.NewStyle().Bold(true).Underline(true)
	styleTab       = lipgloss.NewStyle().Foreground(colorMuted)

	styleSelectedRow = lipgloss.NewStyle().
				Background(ac("#e9e9e9", "#262626")).
				Foreground(ac("235", "255"))

	// Recently changed rows get a short-lived highlight.
	styleFlashRow = lipgloss.NewStyle().
			Background(ac("229", "58")).
			Foreground(ac("235", "230"))

	styleNotice = lipgloss.NewStyle().Foreground(colorStatusPending).Bold(true)

	styleModal = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)
)

// colorCapable is probed once from the environment; on mono terminals the
// status badges fall back to bold-only so they stay legible.
var colorCapable = termenv.EnvColorProfile() != termenv.Ascii

// statusStyle picks the badge color for a workflow status.
func statusStyle(s model.Status) lipgloss.Style {
	if !colorCapable {
		return lipgloss.NewStyle().Bold(true)
	}
	var c lipgloss.AdaptiveColor
	switch s {
	case model.StatusPending:
		c = colorStatusPending
	case model.StatusPendingApproval:
		c = colorStatusApproval
	case model.StatusApproved:
		c = colorStatusApproved
	case model.StatusReverted:
		c = colorStatusReverted
	default:
		c = colorStatusNew
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}
