package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/diagz/internal/ui/theme"
)

// ProbabilityBar displays a probability as a horizontal bar.
type ProbabilityBar struct {
	Label string
	Value float64

	// Decimals controls the printed value; negative hides it.
	Decimals int
	Width    int
}

// NewProbabilityBar creates a bar that prints its value with two decimals.
func NewProbabilityBar(label string, value float64, width int) ProbabilityBar {
	return ProbabilityBar{Label: label, Value: value, Decimals: 2, Width: width}
}

// Bar renders only the filled/empty cells, clamped to [0, width].
func Bar(value float64, width int) string {
	width = max(width, 1)
	filled := min(max(int(float64(width)*value+0.5), 0), width)
	return theme.BarFilled.Render(strings.Repeat(" ", filled)) +
		theme.BarEmpty.Render(strings.Repeat(" ", width-filled))
}

// View renders the label, the bar and the value.
func (p ProbabilityBar) View() string {
	var result string
	if p.Label != "" {
		result = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	var value string
	if p.Decimals >= 0 {
		value = lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %.*f", p.Decimals, p.Value))
	}

	barWidth := max(p.Width-lipgloss.Width(result)-lipgloss.Width(value), 4)
	return result + Bar(p.Value, barWidth) + value
}
