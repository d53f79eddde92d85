package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/diagz/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for centered panels.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 72)
}

// Panel wraps content in a rounded-border card of width cw.
func Panel(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}
