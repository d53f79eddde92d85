package model

import (
	"cmp"
	"slices"
)

// FloorProbability stands in for a conditional rate the model has no entry
// for, so one unknown symptom cannot zero out every candidate.
const FloorProbability = 1e-6

// Answer values for an observed symptom.
const (
	Absent  = 0
	Present = 1
)

// Distribution is a probability per condition, in the model's condition
// order.
type Distribution struct {
	conditions []string
	probs      []float64
}

// Ranked is one entry of a ranked distribution.
type Ranked struct {
	Condition   string  `json:"condition"`
	Probability float64 `json:"probability"`
}

// Len returns the number of conditions.
func (d Distribution) Len() int { return len(d.probs) }

// Conditions returns the condition labels in discovery order.
func (d Distribution) Conditions() []string {
	return append([]string(nil), d.conditions...)
}

// Values returns the probabilities in discovery order.
func (d Distribution) Values() []float64 {
	return append([]float64(nil), d.probs...)
}

// Probability returns the probability assigned to a condition.
func (d Distribution) Probability(condition string) (float64, bool) {
	for i, c := range d.conditions {
		if c == condition {
			return d.probs[i], true
		}
	}
	return 0, false
}

// Map returns the distribution as condition → probability.
func (d Distribution) Map() map[string]float64 {
	out := make(map[string]float64, len(d.probs))
	for i, c := range d.conditions {
		out[c] = d.probs[i]
	}
	return out
}

// Ranked returns every condition sorted by probability, highest first.
// Ties keep discovery order.
func (d Distribution) Ranked() []Ranked {
	out := make([]Ranked, len(d.probs))
	for i := range d.probs {
		out[i] = Ranked{Condition: d.conditions[i], Probability: d.probs[i]}
	}
	slices.SortStableFunc(out, func(a, b Ranked) int {
		return cmp.Compare(b.Probability, a.Probability)
	})
	return out
}

// Leading returns the most probable condition. Ties go to the condition
// discovered first.
func (d Distribution) Leading() Ranked {
	best := 0
	for i := 1; i < len(d.probs); i++ {
		if d.probs[i] > d.probs[best] {
			best = i
		}
	}
	if len(d.probs) == 0 {
		return Ranked{}
	}
	return Ranked{Condition: d.conditions[best], Probability: d.probs[best]}
}

// Infer computes the normalized posterior over all conditions given a set of
// observed symptom answers (0 or 1). Values other than 0 and 1 are ignored.
// Symptoms unknown to the model use FloorProbability as their rate.
//
// With no observations the prior distribution is returned unchanged. When
// every condition scores zero the result is uniform.
func (m *Model) Infer(observations map[string]int) Distribution {
	obs := make([]int8, len(m.symptoms))
	for i := range obs {
		obs[i] = unobserved
	}

	var unknown []string
	for s, v := range observations {
		if v != Absent && v != Present {
			continue
		}
		if i, ok := m.symptomIdx[s]; ok {
			obs[i] = int8(v)
			continue
		}
		unknown = append(unknown, s)
	}
	slices.Sort(unknown)

	extra := make([]int8, len(unknown))
	for i, s := range unknown {
		extra[i] = int8(observations[s])
	}
	return m.posterior(obs, extra)
}

const unobserved int8 = -1

// posterior evaluates the product in symptom column order so that the same
// observations always produce bit-identical results. extra holds answers for
// symptoms the model has no column for.
func (m *Model) posterior(obs []int8, extra []int8) Distribution {
	observed := len(extra)
	for _, v := range obs {
		if v != unobserved {
			observed++
		}
	}
	if observed == 0 {
		return m.Priors()
	}

	scores := make([]float64, len(m.conditions))
	var total float64
	for c := range m.conditions {
		score := m.priors[c]
		for s, v := range obs {
			switch v {
			case Present:
				score *= m.cond[c][s]
			case Absent:
				score *= 1 - m.cond[c][s]
			}
		}
		for _, v := range extra {
			if v == Present {
				score *= FloorProbability
			} else {
				score *= 1 - FloorProbability
			}
		}
		scores[c] = score
		total += score
	}

	if total == 0 {
		u := 1 / float64(len(scores))
		for c := range scores {
			scores[c] = u
		}
		return Distribution{conditions: m.conditions, probs: scores}
	}

	for c := range scores {
		scores[c] /= total
	}
	return Distribution{conditions: m.conditions, probs: scores}
}
