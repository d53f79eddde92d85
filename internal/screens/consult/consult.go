// Package consult implements the interactive consultation screen.
package consult

import (
	"fmt"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/diagz/internal/model"
	"github.com/abhisek/diagz/internal/phrasing"
	"github.com/abhisek/diagz/internal/router"
	"github.com/abhisek/diagz/internal/screen"
	"github.com/abhisek/diagz/internal/screens/results"
	"github.com/abhisek/diagz/internal/session"
	"github.com/abhisek/diagz/internal/ui/layout"
)

// Screen asks one symptom question at a time and shows the leading
// condition after every answer.
type Screen struct {
	sess     *session.Session
	question func(string) string

	// last is the most recent accepted step, shown as feedback.
	last *session.Step

	confirming bool
	confirmYes bool
	errMsg     string
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.BackHandler     = (*Screen)(nil)
	_ screen.StatusProvider  = (*Screen)(nil)
)

// New starts a session over m. question resolves symptom identifiers to
// display text; nil uses the heuristic phrasing.
func New(m *model.Model, question func(string) string, cfg session.Config) *Screen {
	if question == nil {
		question = phrasing.Question
	}
	return &Screen{
		sess:     session.Start(m, cfg),
		question: question,
	}
}

// Session exposes the running session.
func (s *Screen) Session() *session.Session { return s.sess }

func (s *Screen) Init() tea.Cmd {
	if s.sess.IsTerminated() {
		return s.showResults()
	}
	return nil
}

func (s *Screen) Title() string { return "Consultation" }

func (s *Screen) HandlesBack() bool { return true }

func (s *Screen) Status() string {
	total := s.sess.Asked() + s.sess.Remaining()
	return fmt.Sprintf("Question %d/%d", min(s.sess.Asked()+1, total), total)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return hints(keys.Toggle, keys.Accept, keys.Confirm, keys.Cancel)
	}
	return hints(keys.Yes, keys.No, keys.Finish, keys.Back)
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	if s.confirming {
		return s.updateConfirm(kmsg)
	}

	switch {
	case key.Matches(kmsg, keys.Yes):
		return s, s.answer(model.Present)
	case key.Matches(kmsg, keys.No):
		return s, s.answer(model.Absent)
	case key.Matches(kmsg, keys.Finish):
		return s, s.finish()
	case key.Matches(kmsg, keys.Back):
		s.confirming = true
		s.confirmYes = false
	}
	return s, nil
}

func (s *Screen) updateConfirm(kmsg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch {
	case key.Matches(kmsg, keys.Confirm):
		return s, s.finish()
	case key.Matches(kmsg, keys.Cancel):
		s.confirming = false
	case key.Matches(kmsg, keys.Toggle):
		s.confirmYes = !s.confirmYes
	case key.Matches(kmsg, keys.Accept):
		if s.confirmYes {
			return s, s.finish()
		}
		s.confirming = false
	}
	return s, nil
}

func (s *Screen) answer(value int) tea.Cmd {
	if _, err := s.sess.Answer(value); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.errMsg = ""
	steps := s.sess.Steps()
	s.last = &steps[len(steps)-1]

	if s.sess.IsTerminated() {
		return s.showResults()
	}
	return nil
}

func (s *Screen) finish() tea.Cmd {
	s.confirming = false
	s.sess.Finish()
	return s.showResults()
}

func (s *Screen) showResults() tea.Cmd {
	r := results.New(s.sess.Transcript(), s.question)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: r} }
}
