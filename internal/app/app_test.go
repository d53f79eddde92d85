package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/diagz/internal/dataset"
	"github.com/abhisek/diagz/internal/model"
	"github.com/abhisek/diagz/internal/router"
	"github.com/abhisek/diagz/internal/screens/consult"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	ds, err := dataset.New("example", []string{"fever", "skin_rash"}, []dataset.Record{
		{Values: []uint8{1, 0}, Label: "flu"},
		{Values: []uint8{0, 1}, Label: "measles"},
	})
	require.NoError(t, err)
	m, err := model.Build(ds)
	require.NoError(t, err)
	return Options{Model: m, Dataset: "example.csv"}
}

// send applies msg and follows any navigation its command produces. Other
// commands (cursor blink, loaders) are dropped.
func send(m AppModel, msg tea.Msg) AppModel {
	for msg != nil {
		next, cmd := m.Update(msg)
		m = next.(AppModel)
		msg = nil
		if cmd == nil {
			continue
		}
		switch out := cmd().(type) {
		case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg, router.PopToRootMsg:
			msg = out
		}
	}
	return m
}

func TestApp_StartConsultationAndBack(t *testing.T) {
	m := newAppModel(testOptions(t))
	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m = send(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	require.Equal(t, 2, m.router.Depth())
	_, ok := m.router.Active().(*consult.Screen)
	require.True(t, ok)

	// Esc is handled by the consultation screen, not popped.
	m = send(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Equal(t, 2, m.router.Depth())
	assert.Contains(t, m.router.View(100, 30), "End the consultation")

	m = send(m, tea.KeyPressMsg{Code: 'y', Text: "y"})
	assert.Equal(t, "Results", m.router.Active().Title())
	assert.Equal(t, 2, m.router.Depth())

	m = send(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Equal(t, 1, m.router.Depth())
	assert.Equal(t, "Home", m.router.Active().Title())
}

func TestApp_HistoryDisabledWithoutRepo(t *testing.T) {
	m := newAppModel(testOptions(t))
	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 40})

	for range 3 {
		m = send(m, tea.KeyPressMsg{Code: tea.KeyDown})
	}
	// Start, Symptoms, (History skipped), Exit.
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_FooterHints(t *testing.T) {
	m := newAppModel(testOptions(t))
	hints := m.footerHints(m.router.Active())
	assert.Equal(t, "Navigate", hints[0].Description)

	m = send(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	hints = m.footerHints(m.router.Active())
	require.Len(t, hints, 5)
	assert.Equal(t, "←/y", hints[0].Key)
	assert.Equal(t, "Ctrl+C", hints[4].Key)
}

func TestApp_PopToRootMsg(t *testing.T) {
	m := newAppModel(testOptions(t))
	m = send(m, tea.KeyPressMsg{Code: tea.KeyDown})
	m = send(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	require.Equal(t, "Symptoms", m.router.Active().Title())

	m = send(m, router.PopToRootMsg{})
	assert.Equal(t, "Home", m.router.Active().Title())
}
