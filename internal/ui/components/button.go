package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/diagz/internal/ui/theme"
)

var (
	buttonActive = lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(theme.BgDark).
			Bold(true).
			Padding(0, 2)

	buttonInactive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 2)
)

// Button renders a styled label. Active buttons are highlighted.
func Button(label string, active bool) string {
	if active {
		return buttonActive.Render("▸ " + label)
	}
	return buttonInactive.Render(label)
}

// Confirm renders a prompt with a pair of buttons. yes selects the first.
func Confirm(prompt, yesLabel, noLabel string, yes bool, width int) string {
	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		Button(yesLabel, yes), "   ", Button(noLabel, !yes))
	body := lipgloss.JoinVertical(lipgloss.Center,
		theme.Body.Bold(true).Render(prompt), "", buttons)
	return Panel(body, ContentWidth(width))
}
