package model

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/diagz/internal/dataset"
)

// fakeTable implements Table without dataset validation so malformed
// inputs can reach Build.
type fakeTable struct {
	symptoms []string
	labels   []string
	records  []dataset.Record
}

func (f fakeTable) Symptoms() []string { return f.symptoms }
func (f fakeTable) Labels() []string { return f.labels }
func (f fakeTable) Len() int { return len(f.records) }
func (f fakeTable) Record(i int) dataset.Record { return f.records[i] }

// exampleDataset is three X records with A=1,B=0 and one Y record with
// A=0,B=1.
func exampleDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("example", []string{"A", "B"}, []dataset.Record{
		{Values: []uint8{1, 0}, Label: "X"},
		{Values: []uint8{1, 0}, Label: "X"},
		{Values: []uint8{1, 0}, Label: "X"},
		{Values: []uint8{0, 1}, Label: "Y"},
	})
	require.NoError(t, err)
	return ds
}

func exampleModel(t *testing.T) *Model {
	t.Helper()
	m, err := Build(exampleDataset(t))
	require.NoError(t, err)
	return m
}

// randomDataset builds a valid dataset with the given shape from a seeded
// source. Every label gets at least one record.
func randomDataset(t *testing.T, rng *rand.Rand, symptoms, conditions, records int) *dataset.Dataset {
	t.Helper()
	cols := make([]string, symptoms)
	for i := range cols {
		cols[i] = fmt.Sprintf("s%02d", i)
	}
	recs := make([]dataset.Record, records)
	for i := range recs {
		vals := make([]uint8, symptoms)
		for j := range vals {
			if rng.Float64() < 0.3 {
				vals[j] = 1
			}
		}
		label := i % conditions
		if i >= conditions {
			label = rng.IntN(conditions)
		}
		recs[i] = dataset.Record{Values: vals, Label: fmt.Sprintf("c%d", label)}
	}
	ds, err := dataset.New("random", cols, recs)
	require.NoError(t, err)
	return ds
}

func TestBuild_Example(t *testing.T) {
	m := exampleModel(t)

	assert.Equal(t, []string{"A", "B"}, m.Symptoms())
	assert.Equal(t, []string{"X", "Y"}, m.Conditions())

	px, _ := m.Prior("X")
	py, _ := m.Prior("Y")
	assert.Equal(t, 0.75, px)
	assert.Equal(t, 0.25, py)

	tests := []struct {
		condition, symptom string
		want               float64
	}{
		{"X", "A", 1.0},
		{"X", "B", 0.0},
		{"Y", "A", 0.0},
		{"Y", "B", 1.0},
	}
	for _, tt := range tests {
		got, ok := m.Conditional(tt.condition, tt.symptom)
		require.True(t, ok)
		assert.Equal(t, tt.want, got, "P(%s|%s)", tt.symptom, tt.condition)
	}

	_, ok := m.Conditional("Z", "A")
	assert.False(t, ok)
	_, ok = m.Conditional("X", "Z")
	assert.False(t, ok)
}

func TestBuild_DataErrors(t *testing.T) {
	tests := []struct {
		name  string
		table Table
		want  error
	}{
		{
			name:  "nil table",
			table: nil,
			want:  ErrNoRecords,
		},
		{
			name:  "no symptom columns",
			table: fakeTable{labels: []string{"X"}, records: []dataset.Record{{Label: "X"}}},
			want:  ErrNoSymptoms,
		},
		{
			name:  "no records",
			table: fakeTable{symptoms: []string{"A"}, labels: []string{"X"}},
			want:  ErrNoRecords,
		},
		{
			name: "empty symptom name",
			table: fakeTable{
				symptoms: []string{"", "B"},
				labels:   []string{"X"},
				records:  []dataset.Record{{Values: []uint8{1, 0}, Label: "X"}},
			},
			want: ErrEmptySymptom,
		},
		{
			name: "condition without records",
			table: fakeTable{
				symptoms: []string{"A"},
				labels:   []string{"X", "Y"},
				records:  []dataset.Record{{Values: []uint8{1}, Label: "X"}},
			},
			want: ErrEmptyCondition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Build(tt.table)
			require.Error(t, err)
			assert.Nil(t, m)

			var dataErr *DataError
			require.True(t, errors.As(err, &dataErr), "want *DataError, got %T", err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuild_RejectsMalformedRecords(t *testing.T) {
	tests := []struct {
		name   string
		record dataset.Record
	}{
		{"short record", dataset.Record{Values: []uint8{1}, Label: "X"}},
		{"non-binary value", dataset.Record{Values: []uint8{1, 2}, Label: "X"}},
		{"unknown label", dataset.Record{Values: []uint8{1, 0}, Label: "Q"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(fakeTable{
				symptoms: []string{"A", "B"},
				labels:   []string{"X"},
				records:  []dataset.Record{tt.record},
			})
			var dataErr *DataError
			assert.True(t, errors.As(err, &dataErr))
		})
	}
}

func TestBuild_PriorsSumToOne(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 50; i++ {
		ds := randomDataset(t, rng, 1+rng.IntN(12), 1+rng.IntN(6), 6+rng.IntN(60))
		m, err := Build(ds)
		require.NoError(t, err)

		var sum float64
		for _, c := range m.Conditions() {
			p, _ := m.Prior(c)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestBuild_ConditionalsWithinUnitInterval(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 50; i++ {
		ds := randomDataset(t, rng, 1+rng.IntN(12), 1+rng.IntN(6), 6+rng.IntN(60))
		m, err := Build(ds)
		require.NoError(t, err)

		for _, c := range m.Conditions() {
			for _, s := range m.Symptoms() {
				p, ok := m.Conditional(c, s)
				require.True(t, ok)
				assert.GreaterOrEqual(t, p, 0.0)
				assert.LessOrEqual(t, p, 1.0)
			}
		}
	}
}

func TestBuild_DoesNotAliasInput(t *testing.T) {
	ds := exampleDataset(t)
	m, err := Build(ds)
	require.NoError(t, err)

	syms := m.Symptoms()
	syms[0] = "mutated"
	assert.Equal(t, "A", m.Symptom(0))

	conds := m.Conditions()
	conds[0] = "mutated"
	assert.Equal(t, []string{"X", "Y"}, m.Conditions())
}
