package model

import (
	"cmp"
	"slices"
)

// Discrimination is a symptom's selection score.
type Discrimination struct {
	Symptom  string
	Variance float64
}

// SelectNext returns the unasked symptom whose presence rate varies most
// across conditions. Ties go to the earliest column. It returns false once
// every symptom has been asked.
//
// The score is static: it is computed once from the conditional table and is
// not re-conditioned on earlier answers. It approximates information gain
// without modelling interactions between symptoms.
func (m *Model) SelectNext(asked map[string]bool) (string, bool) {
	best := -1
	for s, sym := range m.symptoms {
		if asked[sym] {
			continue
		}
		if best < 0 || m.variance[s] > m.variance[best] {
			best = s
		}
	}
	if best < 0 {
		return "", false
	}
	return m.symptoms[best], true
}

// Discrimination returns every symptom with its score, in the order
// SelectNext would ask them on a fresh session.
func (m *Model) Discrimination() []Discrimination {
	out := make([]Discrimination, len(m.symptoms))
	for s, sym := range m.symptoms {
		out[s] = Discrimination{Symptom: sym, Variance: m.variance[s]}
	}
	slices.SortStableFunc(out, func(a, b Discrimination) int {
		return cmp.Compare(b.Variance, a.Variance)
	})
	return out
}

// symptomVariance is the population variance of P(s | c) over conditions.
func (m *Model) symptomVariance(s int) float64 {
	n := float64(len(m.conditions))
	var mean float64
	for c := range m.conditions {
		mean += m.cond[c][s]
	}
	mean /= n

	var ss float64
	for c := range m.conditions {
		d := m.cond[c][s] - mean
		ss += d * d
	}
	return ss / n
}
