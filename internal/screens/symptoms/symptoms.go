// Package symptoms lists the model's symptoms in the order a fresh
// consultation would ask them.
package symptoms

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/diagz/internal/model"
	"github.com/abhisek/diagz/internal/screen"
	"github.com/abhisek/diagz/internal/ui/components"
	"github.com/abhisek/diagz/internal/ui/layout"
	"github.com/abhisek/diagz/internal/ui/theme"
)

// Screen shows each symptom's discrimination score with a text filter.
type Screen struct {
	all      []model.Discrimination
	question func(string) string
	filter   components.FilterInput
	offset   int
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.StatusProvider  = (*Screen)(nil)
)

// New creates the symptoms screen for m.
func New(m *model.Model, question func(string) string) *Screen {
	return &Screen{
		all:      m.Discrimination(),
		question: question,
		filter:   components.NewFilterInput("type to filter", 40),
	}
}

func (s *Screen) Init() tea.Cmd { return s.filter.Init() }

func (s *Screen) Title() string { return "Symptoms" }

func (s *Screen) Status() string {
	return fmt.Sprintf("%d/%d shown", len(s.visible()), len(s.all))
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "type", Description: "Filter"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up":
			s.offset = max(s.offset-1, 0)
			return s, nil
		case "down":
			s.offset = min(s.offset+1, max(len(s.visible())-1, 0))
			return s, nil
		}
	}

	var cmd tea.Cmd
	before := s.filter.Value()
	s.filter, cmd = s.filter.Update(msg)
	if s.filter.Value() != before {
		s.offset = 0
	}
	return s, cmd
}

// Rank pairs a discrimination score with its selection position.
type Rank struct {
	Position int
	model.Discrimination
}

func (s *Screen) visible() []Rank {
	var out []Rank
	for i, d := range s.all {
		if s.filter.Match(d.Symptom) {
			out = append(out, Rank{Position: i + 1, Discrimination: d})
		}
	}
	return out
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	rows := s.visible()

	var b strings.Builder
	b.WriteString(s.filter.View() + "\n\n")
	if len(rows) == 0 {
		b.WriteString(theme.Hint.Render("No symptom matches the filter."))
		return layout.Centered(lipgloss.NewStyle().Width(cw).Render(b.String()), width, height)
	}

	// The largest variance of a binary rate is 0.25.
	const maxVariance = 0.25
	limit := max(height-6, 3)
	end := min(s.offset+limit, len(rows))
	labelWidth := cw / 2
	for _, r := range rows[s.offset:end] {
		label := fmt.Sprintf("%3d. %s", r.Position, s.question(r.Symptom))
		b.WriteString(lipgloss.NewStyle().Width(labelWidth).MaxWidth(labelWidth).Foreground(theme.Text).Render(label))
		b.WriteString(" " + components.Bar(r.Variance/maxVariance, cw-labelWidth-10))
		b.WriteString(theme.Hint.Render(fmt.Sprintf(" %.4f", r.Variance)) + "\n")
	}
	if hidden := len(rows) - end; hidden > 0 {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%d more", hidden)))
	}
	return layout.Centered(lipgloss.NewStyle().Width(cw).Render(strings.TrimRight(b.String(), "\n")), width, height)
}
