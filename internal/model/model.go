package model

import (
	"errors"
	"fmt"

	"github.com/abhisek/diagz/internal/dataset"
)

var (
	ErrNoSymptoms     = errors.New("no symptom columns")
	ErrNoRecords      = errors.New("no records")
	ErrEmptyCondition = errors.New("condition has no records")
	ErrEmptySymptom   = errors.New("symptom has no name")
)

// DataError reports a dataset that cannot produce a model. No partial model
// is ever returned alongside it.
type DataError struct {
	Err error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("invalid dataset: %v", e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// Table is the tabular input the model is estimated from.
// *dataset.Dataset satisfies it.
type Table interface {
	Symptoms() []string
	Labels() []string
	Len() int
	Record(i int) dataset.Record
}

// Model holds the prior and conditional probability tables estimated from a
// dataset. It is immutable after Build and safe for concurrent use.
type Model struct {
	symptoms     []string
	symptomIdx   map[string]int
	conditions   []string
	conditionIdx map[string]int

	// priors[c] is the relative frequency of condition c.
	priors []float64

	// cond[c][s] is P(symptom s present | condition c).
	cond [][]float64

	// variance[s] is the population variance of cond[*][s].
	variance []float64
}

// Build estimates priors and per-condition symptom rates from t.
//
// priors[c] = records labeled c / all records
// cond[c][s] = sum of symptom s over records labeled c / records labeled c
func Build(t Table) (*Model, error) {
	if t == nil {
		return nil, &DataError{Err: ErrNoRecords}
	}
	symptoms := append([]string(nil), t.Symptoms()...)
	if len(symptoms) == 0 {
		return nil, &DataError{Err: ErrNoSymptoms}
	}
	n := t.Len()
	if n == 0 {
		return nil, &DataError{Err: ErrNoRecords}
	}
	labels := append([]string(nil), t.Labels()...)
	if len(labels) == 0 {
		return nil, &DataError{Err: ErrNoRecords}
	}

	m := &Model{
		symptoms:     symptoms,
		symptomIdx:   make(map[string]int, len(symptoms)),
		conditions:   labels,
		conditionIdx: make(map[string]int, len(labels)),
		priors:       make([]float64, len(labels)),
		cond:         make([][]float64, len(labels)),
	}
	for i, s := range symptoms {
		if s == "" {
			return nil, &DataError{Err: fmt.Errorf("%w: column %d", ErrEmptySymptom, i+1)}
		}
		if _, dup := m.symptomIdx[s]; dup {
			return nil, &DataError{Err: fmt.Errorf("duplicate symptom %q", s)}
		}
		m.symptomIdx[s] = i
	}
	for i, c := range labels {
		if _, dup := m.conditionIdx[c]; dup {
			return nil, &DataError{Err: fmt.Errorf("duplicate condition %q", c)}
		}
		m.conditionIdx[c] = i
		m.cond[i] = make([]float64, len(symptoms))
	}

	counts := make([]int, len(labels))
	sums := make([][]int, len(labels))
	for i := range sums {
		sums[i] = make([]int, len(symptoms))
	}
	for r := 0; r < n; r++ {
		rec := t.Record(r)
		c, ok := m.conditionIdx[rec.Label]
		if !ok {
			return nil, &DataError{Err: fmt.Errorf("record %d: unknown condition %q", r+1, rec.Label)}
		}
		if len(rec.Values) != len(symptoms) {
			return nil, &DataError{Err: fmt.Errorf("record %d: has %d values, want %d", r+1, len(rec.Values), len(symptoms))}
		}
		counts[c]++
		for s, v := range rec.Values {
			if v > 1 {
				return nil, &DataError{Err: fmt.Errorf("record %d: symptom %q has value %d", r+1, symptoms[s], v)}
			}
			sums[c][s] += int(v)
		}
	}

	for c, count := range counts {
		if count == 0 {
			return nil, &DataError{Err: fmt.Errorf("%w: %q", ErrEmptyCondition, labels[c])}
		}
		m.priors[c] = float64(count) / float64(n)
		for s := range symptoms {
			m.cond[c][s] = float64(sums[c][s]) / float64(count)
		}
	}

	m.variance = make([]float64, len(symptoms))
	for s := range symptoms {
		m.variance[s] = m.symptomVariance(s)
	}

	return m, nil
}

// Symptoms returns the symptom identifiers in column order.
func (m *Model) Symptoms() []string {
	return append([]string(nil), m.symptoms...)
}

// Conditions returns the condition labels in discovery order.
func (m *Model) Conditions() []string {
	return append([]string(nil), m.conditions...)
}

// NumSymptoms returns the size of the symptom set.
func (m *Model) NumSymptoms() int { return len(m.symptoms) }

// NumConditions returns the size of the condition set.
func (m *Model) NumConditions() int { return len(m.conditions) }

// Symptom returns the identifier of the i-th symptom column.
func (m *Model) Symptom(i int) string { return m.symptoms[i] }

// SymptomIndex returns the column index of a symptom.
func (m *Model) SymptomIndex(symptom string) (int, bool) {
	i, ok := m.symptomIdx[symptom]
	return i, ok
}

// Prior returns the prior probability of a condition.
func (m *Model) Prior(condition string) (float64, bool) {
	c, ok := m.conditionIdx[condition]
	if !ok {
		return 0, false
	}
	return m.priors[c], true
}

// Priors returns the prior distribution.
func (m *Model) Priors() Distribution {
	return Distribution{
		conditions: m.conditions,
		probs:      append([]float64(nil), m.priors...),
	}
}

// Conditional returns P(symptom present | condition).
func (m *Model) Conditional(condition, symptom string) (float64, bool) {
	c, ok := m.conditionIdx[condition]
	if !ok {
		return 0, false
	}
	s, ok := m.symptomIdx[symptom]
	if !ok {
		return 0, false
	}
	return m.cond[c][s], true
}
