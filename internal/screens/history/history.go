package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/diagz/internal/router"
	"github.com/abhisek/diagz/internal/screen"
	"github.com/abhisek/diagz/internal/store"
	"github.com/abhisek/diagz/internal/ui/layout"
	"github.com/abhisek/diagz/internal/ui/theme"
)

const pageSize = 50

type historyLoadedMsg struct {
	Sessions []store.SessionSummary
	Err      error
}

type answersLoadedMsg struct {
	SessionID string
	Answers   []store.AnswerEvent
	Err       error
}

// HistoryScreen lists recorded consultations.
type HistoryScreen struct {
	eventRepo store.EventRepo
	sessions  []store.SessionSummary
	answers   map[string][]store.AnswerEvent
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		answers:   make(map[string][]store.AnswerEvent),
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		sessions, err := s.eventRepo.QuerySessionSummaries(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Answers"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case answersLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.answers[msg.SessionID] = msg.Answers
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			if len(s.sessions) == 0 {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			if s.expanded[s.selected] {
				return s, s.loadAnswers(s.sessions[s.selected].SessionID)
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) loadAnswers(sessionID string) tea.Cmd {
	if _, ok := s.answers[sessionID]; ok {
		return nil
	}
	return func() tea.Msg {
		answers, err := s.eventRepo.QueryAnswers(context.Background(), sessionID)
		return answersLoadedMsg{SessionID: sessionID, Answers: answers, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Message("Error: "+s.errMsg, lipgloss.NewStyle().Foreground(theme.Error), width)
	}
	if !s.loaded {
		return layout.Message("Loading history...", theme.Hint, width)
	}
	if len(s.sessions) == 0 {
		return layout.Message("No consultations recorded yet.", theme.Hint, width)
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "▸ "
			style = theme.Selected
		}
		b.WriteString(style.Render(prefix+summaryLine(sess)) + "\n")

		if s.expanded[i] {
			b.WriteString(s.renderAnswers(sess.SessionID))
		}
	}

	return lipgloss.NewStyle().Width(width).Padding(0, 2).Render(b.String())
}

func summaryLine(sess store.SessionSummary) string {
	outcome := theme.Hint.Render("abandoned")
	if sess.Completed() {
		outcome = fmt.Sprintf("%s %.2f", sess.TopCondition, sess.TopProbability)
	}
	return fmt.Sprintf("%s  %-18s  %3d asked  %s",
		sess.StartedAt.Local().Format("Jan 02 15:04"),
		truncate(sess.Dataset, 18),
		sess.QuestionsAnswered,
		outcome,
	)
}

func (s *HistoryScreen) renderAnswers(sessionID string) string {
	answers, ok := s.answers[sessionID]
	if !ok {
		return theme.Hint.Render("      loading...") + "\n"
	}
	if len(answers) == 0 {
		return theme.Hint.Render("      no answers recorded") + "\n"
	}

	var b strings.Builder
	for _, a := range answers {
		text := a.Question
		if text == "" {
			text = a.Symptom
		}
		answer := theme.No.Render("no ")
		if a.Value == 1 {
			answer = theme.Yes.Render("yes")
		}
		fmt.Fprintf(&b, "      %2d. %s %s  %s\n", a.Step, answer, text,
			theme.Hint.Render(fmt.Sprintf("→ %s %.2f", a.LeadingCondition, a.LeadingProbability)))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
