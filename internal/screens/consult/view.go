package consult

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/diagz/internal/model"
	"github.com/abhisek/diagz/internal/ui/components"
	"github.com/abhisek/diagz/internal/ui/layout"
	"github.com/abhisek/diagz/internal/ui/theme"
)

// runnersUp is the number of conditions listed under the leader.
const runnersUp = 4

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if s.confirming {
		return layout.Centered(components.Confirm(
			"End the consultation and show the results so far?",
			"End", "Keep going", s.confirmYes, width), width, height)
	}

	pending, ok := s.sess.PendingQuestion()
	if !ok {
		return layout.Message("Preparing results...", theme.Hint, width)
	}

	var sections []string
	sections = append(sections, s.renderQuestion(pending, cw))
	if s.last != nil {
		sections = append(sections, s.renderFeedback())
	}
	sections = append(sections, renderLeaders(s.sess.Current(), cw))
	if s.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	return layout.Centered(lipgloss.JoinVertical(lipgloss.Center, sections...), width, height)
}

func (s *Screen) renderQuestion(symptom string, cw int) string {
	step := theme.Hint.Render(fmt.Sprintf("Question %d of %d", s.sess.Asked()+1, s.sess.Asked()+s.sess.Remaining()))
	q := lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Width(cw - 4).Align(lipgloss.Center).
		Render(s.question(symptom))
	answers := theme.Yes.Render("← Yes") + "      " + theme.No.Render("No →")
	return components.Panel(lipgloss.JoinVertical(lipgloss.Center, step, "", q, "", answers), cw)
}

func (s *Screen) renderFeedback() string {
	answer := theme.No.Render("no")
	if s.last.Value == model.Present {
		answer = theme.Yes.Render("yes")
	}
	return theme.Hint.Render(s.question(s.last.Symptom)+" ") + answer
}

func renderLeaders(ranked []model.Ranked, cw int) string {
	if len(ranked) == 0 {
		return ""
	}
	lead := ranked[0]

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("Most likely condition") + "\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.Accent).Render(lead.Condition) + "\n")
	b.WriteString(components.NewProbabilityBar("", lead.Probability, cw-4).View())

	if rest := ranked[1:min(len(ranked), runnersUp+1)]; len(rest) > 0 {
		b.WriteString("\n\n")
		labelWidth := 0
		for _, r := range rest {
			labelWidth = max(labelWidth, lipgloss.Width(r.Condition))
		}
		labelWidth = min(labelWidth, cw/2)
		for _, r := range rest {
			label := lipgloss.NewStyle().Width(labelWidth).Foreground(theme.TextDim).Render(truncate(r.Condition, labelWidth))
			b.WriteString(label + "  " + components.Bar(r.Probability, cw-labelWidth-12) +
				theme.Hint.Render(fmt.Sprintf("  %.2f", r.Probability)) + "\n")
		}
	}
	return components.Panel(strings.TrimRight(b.String(), "\n"), cw)
}

func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n || n < 2 {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
