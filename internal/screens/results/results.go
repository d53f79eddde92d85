// Package results shows the final ranking of a consultation.
package results

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/diagz/internal/model"
	"github.com/abhisek/diagz/internal/router"
	"github.com/abhisek/diagz/internal/screen"
	"github.com/abhisek/diagz/internal/session"
	"github.com/abhisek/diagz/internal/ui/components"
	"github.com/abhisek/diagz/internal/ui/layout"
	"github.com/abhisek/diagz/internal/ui/theme"
)

// Disclaimer is shown with every final ranking.
const Disclaimer = "This ranking is computed from a symptom dataset and is not a medical diagnosis. " +
	"Consult a qualified clinician about any health concern."

// Screen displays a terminated session's transcript.
type Screen struct {
	transcript session.Transcript
	question   func(string) string
	offset     int
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.StatusProvider  = (*Screen)(nil)
)

// New creates a results screen for t.
func New(t session.Transcript, question func(string) string) *Screen {
	return &Screen{transcript: t, question: question}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Results" }

func (s *Screen) Status() string {
	return fmt.Sprintf("%d answered", len(s.transcript.Steps))
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "Home"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "up", "k":
		s.offset = max(s.offset-1, 0)
	case "down", "j":
		s.offset = min(s.offset+1, max(len(s.transcript.Ranking)-1, 0))
	case "enter", "q":
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	top := s.transcript.Top()
	headline := lipgloss.JoinVertical(lipgloss.Center,
		theme.Subtitle.Render("Most likely condition"),
		lipgloss.NewStyle().Bold(true).Foreground(theme.Accent).Render(top.Condition),
		theme.Hint.Render(summaryLine(s.transcript)),
	)
	disclaimer := theme.Warning.Width(cw).Align(lipgloss.Center).Render(Disclaimer)

	// Rows left after the headline (3), disclaimer, table chrome (4) and gaps.
	rows := max(height-3-lipgloss.Height(disclaimer)-4-4, 3)
	tbl := RenderTable(s.transcript.Ranking, s.offset, rows, cw)

	return layout.Centered(lipgloss.JoinVertical(lipgloss.Center,
		headline, "", tbl, "", disclaimer), width, height)
}

func summaryLine(t session.Transcript) string {
	reason := "all symptoms asked"
	if t.Reason == session.ReasonFinished {
		reason = "finished early"
	}
	return fmt.Sprintf("%d questions · %s · %s", len(t.Steps), reason, t.Duration().Round(time.Second))
}

// RenderTable renders up to limit rows of ranking starting at offset, with
// probabilities to four decimals and a proportional bar.
func RenderTable(ranking []model.Ranked, offset, limit, width int) string {
	offset = min(max(offset, 0), max(len(ranking)-1, 0))
	end := min(offset+limit, len(ranking))

	barWidth := max(width/3, 6)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("#", "Condition", "Probability", "").
		StyleFunc(func(row, col int) lipgloss.Style {
			st := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return st.Bold(true).Foreground(theme.Primary)
			case row == 0 && offset == 0:
				return st.Foreground(theme.Accent)
			case col == 2:
				return st.Foreground(theme.Text).Align(lipgloss.Right)
			}
			return st.Foreground(theme.Text)
		})
	for i := offset; i < end; i++ {
		r := ranking[i]
		t.Row(fmt.Sprint(i+1), r.Condition, fmt.Sprintf("%.4f", r.Probability), components.Bar(r.Probability, barWidth))
	}

	out := t.String()
	if hidden := len(ranking) - end; hidden > 0 {
		out += "\n" + theme.Hint.Render(fmt.Sprintf("%d more", hidden))
	}
	return strings.TrimRight(out, "\n")
}
