package history

import (
	"context"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/diagz/internal/store"
)

func seededRepo(t *testing.T) store.EventRepo {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	repo := s.EventRepo()
	ctx := context.Background()
	require.NoError(t, repo.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID: "s1", Action: store.ActionStart, Dataset: "training.csv", Symptoms: 2, Conditions: 2,
	}))
	require.NoError(t, repo.AppendAnswerEvent(ctx, store.AnswerEventData{
		SessionID: "s1", Step: 1, Symptom: "fever", Question: "Do you have Fever?", Value: 1,
		LeadingCondition: "flu", LeadingProbability: 1,
	}))
	require.NoError(t, repo.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID: "s1", Action: store.ActionEnd, Reason: "finished", QuestionsAnswered: 1,
		TopCondition: "flu", TopProbability: 1, RankingJSON: "[]",
	}))
	require.NoError(t, repo.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID: "s2", Action: store.ActionStart, Dataset: "training.csv", Symptoms: 2, Conditions: 2,
	}))
	return repo
}

// run feeds cmd's message back into the screen.
func run(s *HistoryScreen, cmd tea.Cmd) {
	if cmd != nil {
		s.Update(cmd())
	}
}

func TestHistory_ListsSessions(t *testing.T) {
	s := New(seededRepo(t))
	assert.Contains(t, s.View(100, 30), "Loading")

	run(s, s.Init())
	view := s.View(100, 30)
	assert.Contains(t, view, "abandoned")
	assert.Contains(t, view, "flu 1.00")
	assert.Contains(t, view, "training.csv")
}

func TestHistory_ExpandLoadsAnswers(t *testing.T) {
	s := New(seededRepo(t))
	run(s, s.Init())

	// Newest first: s2 then s1.
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Contains(t, s.View(100, 30), "loading...")

	run(s, cmd)
	view := s.View(100, 30)
	assert.Contains(t, view, "Do you have Fever?")
	assert.Contains(t, view, "→ flu 1.00")

	// Collapsing and expanding again uses the loaded answers.
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestHistory_Empty(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer st.Close()

	s := New(st.EventRepo())
	run(s, s.Init())
	assert.Contains(t, s.View(100, 30), "No consultations recorded yet.")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
}
