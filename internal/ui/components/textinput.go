package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// FilterInput wraps bubbles/textinput as a case-insensitive substring filter.
type FilterInput struct {
	Model textinput.Model
}

// NewFilterInput creates a focused filter input.
func NewFilterInput(placeholder string, charLimit int) FilterInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()
	return FilterInput{Model: ti}
}

// Init returns the initial command.
func (f FilterInput) Init() tea.Cmd {
	return f.Model.Focus()
}

// Update handles messages.
func (f FilterInput) Update(msg tea.Msg) (FilterInput, tea.Cmd) {
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// View renders the input.
func (f FilterInput) View() string {
	return f.Model.View()
}

// Value returns the current input value.
func (f FilterInput) Value() string {
	return f.Model.Value()
}

// Match reports whether s contains the filter text. Underscores in s match
// spaces in the filter.
func (f FilterInput) Match(s string) bool {
	q := strings.ToLower(strings.TrimSpace(f.Model.Value()))
	if q == "" {
		return true
	}
	s = strings.ToLower(s)
	return strings.Contains(s, q) || strings.Contains(strings.ReplaceAll(s, "_", " "), q)
}
