// Package phrasing turns symptom identifiers into patient-facing questions.
// It only changes display text; symptom identity and order are untouched.
package phrasing

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Phraser maps each symptom identifier to the question shown to the user.
// Implementations return an entry for every input symptom, even on error.
type Phraser interface {
	Phrase(ctx context.Context, symptoms []string) (map[string]string, error)
}

// Heuristic phrases symptoms without a model: "skin_rash" becomes
// "Do you have Skin rash?".
type Heuristic struct{}

func (Heuristic) Phrase(_ context.Context, symptoms []string) (map[string]string, error) {
	out := make(map[string]string, len(symptoms))
	for _, s := range symptoms {
		out[s] = Question(s)
	}
	return out, nil
}

// Question returns the heuristic question for one symptom.
func Question(symptom string) string {
	return "Do you have " + Label(symptom) + "?"
}

// Label converts a symptom identifier into readable text: underscores become
// spaces, the first letter is upper-cased and the rest lower-cased.
func Label(symptom string) string {
	s := strings.Join(strings.Fields(strings.ReplaceAll(symptom, "_", " ")), " ")
	if s == "" {
		return symptom
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// Lookup returns a function that resolves a symptom to its phrased question,
// falling back to the heuristic for symptoms missing from questions.
func Lookup(questions map[string]string) func(string) string {
	return func(symptom string) string {
		if q, ok := questions[symptom]; ok && q != "" {
			return q
		}
		return Question(symptom)
	}
}
