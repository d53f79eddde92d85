package consult

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/diagz/internal/dataset"
	"github.com/abhisek/diagz/internal/model"
	"github.com/abhisek/diagz/internal/router"
	"github.com/abhisek/diagz/internal/screens/results"
	"github.com/abhisek/diagz/internal/session"
)

func exampleModel(t *testing.T) *model.Model {
	t.Helper()
	ds, err := dataset.New("example", []string{"fever", "skin_rash"}, []dataset.Record{
		{Values: []uint8{1, 0}, Label: "flu"},
		{Values: []uint8{1, 0}, Label: "flu"},
		{Values: []uint8{1, 0}, Label: "flu"},
		{Values: []uint8{0, 1}, Label: "measles"},
	})
	require.NoError(t, err)
	m, err := model.Build(ds)
	require.NoError(t, err)
	return m
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// resultsFrom runs cmd and returns the results screen it navigates to.
func resultsFrom(t *testing.T, cmd tea.Cmd) *results.Screen {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok, "expected ReplaceScreenMsg")
	r, ok := msg.Screen.(*results.Screen)
	require.True(t, ok, "expected results screen")
	return r
}

func TestConsult_AnswerKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyPressMsg
		want int
	}{
		{"y", keyPress('y'), model.Present},
		{"left", specialKey(tea.KeyLeft), model.Present},
		{"n", keyPress('n'), model.Absent},
		{"right", specialKey(tea.KeyRight), model.Absent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(exampleModel(t), nil, session.Config{})
			_, cmd := s.Update(tt.key)
			assert.Nil(t, cmd)

			steps := s.Session().Steps()
			require.Len(t, steps, 1)
			assert.Equal(t, "fever", steps[0].Symptom)
			assert.Equal(t, tt.want, steps[0].Value)
		})
	}
}

func TestConsult_ShowsQuestionAndLeader(t *testing.T) {
	s := New(exampleModel(t), nil, session.Config{})
	view := s.View(100, 40)
	assert.Contains(t, view, "Do you have Fever?")
	assert.Contains(t, view, "Question 1 of 2")
	assert.Contains(t, view, "flu")
	assert.Equal(t, "Question 1/2", s.Status())

	s.Update(keyPress('y'))
	view = s.View(100, 40)
	assert.Contains(t, view, "Do you have Skin rash?")
	assert.Contains(t, view, "1.00")
}

func TestConsult_ExhaustionShowsResults(t *testing.T) {
	s := New(exampleModel(t), nil, session.Config{})
	s.Update(keyPress('y'))
	_, cmd := s.Update(keyPress('n'))

	r := resultsFrom(t, cmd)
	assert.True(t, s.Session().IsTerminated())
	assert.Equal(t, session.ReasonExhausted, s.Session().Reason())
	assert.Contains(t, r.View(100, 40), "flu")
}

func TestConsult_FinishKeys(t *testing.T) {
	for _, k := range []tea.KeyPressMsg{keyPress('f'), specialKey(tea.KeyEnd)} {
		s := New(exampleModel(t), nil, session.Config{})
		_, cmd := s.Update(k)
		resultsFrom(t, cmd)
		assert.Equal(t, session.ReasonFinished, s.Session().Reason())
	}
}

func TestConsult_EscapeAsksForConfirmation(t *testing.T) {
	s := New(exampleModel(t), nil, session.Config{})
	assert.True(t, s.HandlesBack())

	_, cmd := s.Update(specialKey(tea.KeyEscape))
	assert.Nil(t, cmd)
	assert.Contains(t, s.View(100, 40), "End the consultation")

	// While confirming, y/n no longer answer the question.
	s.Update(keyPress('n'))
	assert.Empty(t, s.Session().Steps())
	assert.NotContains(t, s.View(100, 40), "End the consultation")

	s.Update(specialKey(tea.KeyEscape))
	_, cmd = s.Update(keyPress('y'))
	resultsFrom(t, cmd)
	assert.Empty(t, s.Session().Steps())
	assert.Equal(t, session.ReasonFinished, s.Session().Reason())
}

func TestConsult_ConfirmWithButtons(t *testing.T) {
	s := New(exampleModel(t), nil, session.Config{})
	s.Update(specialKey(tea.KeyEscape))

	// Default button is "Keep going".
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.False(t, s.Session().IsTerminated())

	s.Update(specialKey(tea.KeyEscape))
	s.Update(specialKey(tea.KeyLeft))
	_, cmd = s.Update(specialKey(tea.KeyEnter))
	resultsFrom(t, cmd)
}

func TestConsult_CustomQuestionText(t *testing.T) {
	q := func(s string) string { return "Q[" + s + "]" }
	s := New(exampleModel(t), q, session.Config{})
	assert.Contains(t, s.View(100, 40), "Q[fever]")
}

func TestConsult_ObserverSeesLifecycle(t *testing.T) {
	var started, answered, finished int
	obs := session.Hooks{
		OnStart:  func(session.Info) { started++ },
		OnAnswer: func(session.Step) { answered++ },
		OnFinish: func(session.Transcript) { finished++ },
	}
	s := New(exampleModel(t), nil, session.Config{Observer: obs})
	s.Update(keyPress('y'))
	s.Update(keyPress('f'))

	assert.Equal(t, 1, started)
	assert.Equal(t, 1, answered)
	assert.Equal(t, 1, finished)
}
