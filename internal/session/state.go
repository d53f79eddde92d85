package session

import (
	"time"

	"github.com/abhisek/diagz/internal/model"
)

// State is the phase of a consultation.
type State int

const (
	AwaitingAnswer State = iota // A symptom question is pending
	Terminated                  // Final ranking is available
)

func (s State) String() string {
	switch s {
	case AwaitingAnswer:
		return "awaiting-answer"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

// Reason records why a session terminated.
type Reason string

const (
	// ReasonExhausted means every symptom in the model was asked.
	ReasonExhausted Reason = "exhausted"

	// ReasonFinished means the caller ended the session early.
	ReasonFinished Reason = "finished"
)

// Step is one accepted answer and the leading condition it produced.
type Step struct {
	SessionID string

	// Number is 1-based.
	Number  int
	Symptom string
	Value   int
	Leading model.Ranked
	At      time.Time
}

// Info describes a session at the moment it starts.
type Info struct {
	ID         string
	StartedAt  time.Time
	Symptoms   int
	Conditions int
}

// Transcript is the complete record of a terminated session.
type Transcript struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Reason    Reason
	Steps     []Step
	Ranking   []model.Ranked
}

// Duration is the wall time between start and termination.
func (t Transcript) Duration() time.Duration {
	return t.EndedAt.Sub(t.StartedAt)
}

// Top returns the leading condition of the final ranking.
func (t Transcript) Top() model.Ranked {
	if len(t.Ranking) == 0 {
		return model.Ranked{}
	}
	return t.Ranking[0]
}
