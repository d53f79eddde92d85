package model

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/diagz/internal/dataset"
)

func TestSelectNext_TieBreaksOnColumnOrder(t *testing.T) {
	m := exampleModel(t)

	// A and B have identical variance; A comes first.
	next, ok := m.SelectNext(nil)
	require.True(t, ok)
	assert.Equal(t, "A", next)

	next, ok = m.SelectNext(map[string]bool{"A": true})
	require.True(t, ok)
	assert.Equal(t, "B", next)

	_, ok = m.SelectNext(map[string]bool{"A": true, "B": true})
	assert.False(t, ok)
}

func TestSelectNext_PrefersDiscriminatingSymptom(t *testing.T) {
	ds, err := dataset.New("t", []string{"cough", "fever", "rash"}, []dataset.Record{
		{Values: []uint8{1, 1, 0}, Label: "flu"},
		{Values: []uint8{1, 1, 0}, Label: "flu"},
		{Values: []uint8{1, 0, 1}, Label: "measles"},
		{Values: []uint8{1, 0, 1}, Label: "measles"},
		{Values: []uint8{1, 1, 1}, Label: "measles"},
	})
	require.NoError(t, err)
	m, err := Build(ds)
	require.NoError(t, err)

	// cough is present for every condition and carries no information.
	next, ok := m.SelectNext(nil)
	require.True(t, ok)
	assert.Equal(t, "rash", next)

	next, _ = m.SelectNext(map[string]bool{"rash": true})
	assert.Equal(t, "fever", next)

	next, _ = m.SelectNext(map[string]bool{"rash": true, "fever": true})
	assert.Equal(t, "cough", next)
}

func TestSelectNext_NeverReturnsAsked(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 30; i++ {
		ds := randomDataset(t, rng, 1+rng.IntN(15), 1+rng.IntN(5), 10+rng.IntN(40))
		m, err := Build(ds)
		require.NoError(t, err)

		asked := make(map[string]bool)
		for len(asked) < m.NumSymptoms() {
			next, ok := m.SelectNext(asked)
			require.True(t, ok, "symptoms remain but none selected")
			require.False(t, asked[next], "selected already-asked symptom %q", next)
			asked[next] = true
		}

		_, ok := m.SelectNext(asked)
		assert.False(t, ok)
	}
}

func TestSelectNext_ZeroVarianceStillReturned(t *testing.T) {
	ds, err := dataset.New("t", []string{"a", "b"}, []dataset.Record{
		{Values: []uint8{1, 1}, Label: "only"},
	})
	require.NoError(t, err)
	m, err := Build(ds)
	require.NoError(t, err)

	next, ok := m.SelectNext(nil)
	require.True(t, ok)
	assert.Equal(t, "a", next)
}

func TestDiscrimination_MatchesSelectionOrder(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 8))
	ds := randomDataset(t, rng, 12, 4, 80)
	m, err := Build(ds)
	require.NoError(t, err)

	asked := make(map[string]bool)
	for _, d := range m.Discrimination() {
		next, ok := m.SelectNext(asked)
		require.True(t, ok)
		assert.Equal(t, d.Symptom, next)
		asked[next] = true
	}
}

func TestDiscrimination_ExampleVariance(t *testing.T) {
	m := exampleModel(t)
	got := m.Discrimination()
	assert.Equal(t, []Discrimination{
		{Symptom: "A", Variance: 0.25},
		{Symptom: "B", Variance: 0.25},
	}, got)
}
