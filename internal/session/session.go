package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/diagz/internal/model"
)

// Config holds optional session dependencies. The zero value is usable.
type Config struct {
	// Observer receives lifecycle events (nil disables notifications).
	Observer Observer

	// Now overrides the clock (defaults to time.Now).
	Now func() time.Time

	// NewID overrides session ID generation (defaults to a random UUID).
	NewID func() string
}

// Session drives one consultation: it asks the most discriminating
// unasked symptom, folds each answer into the posterior and terminates when
// the symptoms run out or the caller finishes.
//
// A Session must be confined to one goroutine. Many sessions may share the
// same Model.
type Session struct {
	model    *model.Model
	observer Observer
	now      func() time.Time

	id        string
	startedAt time.Time
	state     State
	reason    Reason

	pending      string
	hasPending   bool
	observations map[string]int
	asked        map[string]bool
	steps        []Step

	current    model.Distribution
	transcript Transcript
}

// Start begins a session over m. If m offers no question the session is
// terminated immediately with the prior ranking.
func Start(m *model.Model, cfg Config) *Session {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	newID := cfg.NewID
	if newID == nil {
		newID = func() string { return uuid.New().String() }
	}

	s := &Session{
		model:        m,
		observer:     cfg.Observer,
		now:          now,
		id:           newID(),
		state:        AwaitingAnswer,
		observations: make(map[string]int),
		asked:        make(map[string]bool),
		current:      m.Priors(),
	}
	s.startedAt = s.now()

	if s.observer != nil {
		s.observer.SessionStarted(Info{
			ID:         s.id,
			StartedAt:  s.startedAt,
			Symptoms:   m.NumSymptoms(),
			Conditions: m.NumConditions(),
		})
	}

	s.advance()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// StartedAt returns when the session began.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// State returns the current phase.
func (s *Session) State() State { return s.state }

// IsTerminated reports whether the final ranking is available.
func (s *Session) IsTerminated() bool { return s.state == Terminated }

// Reason returns why the session terminated, or "" while it is running.
func (s *Session) Reason() Reason { return s.reason }

// PendingQuestion returns the symptom awaiting an answer. ok is false once
// the session has terminated.
func (s *Session) PendingQuestion() (symptom string, ok bool) {
	if s.state != AwaitingAnswer || !s.hasPending {
		return "", false
	}
	return s.pending, true
}

// Answer records value (0 = absent, 1 = present) for the pending symptom and
// returns the new leading condition. The session terminates on its own when
// no symptom remains. Rejected calls return a *StateError and leave the
// session untouched.
func (s *Session) Answer(value int) (model.Ranked, error) {
	if s.state == Terminated {
		return model.Ranked{}, &StateError{Op: "answer", State: s.state, Err: ErrTerminated}
	}
	if !s.hasPending {
		return model.Ranked{}, &StateError{Op: "answer", State: s.state, Err: ErrNoPendingQuestion}
	}
	if value != model.Absent && value != model.Present {
		return model.Ranked{}, &StateError{Op: "answer", State: s.state, Err: ErrInvalidAnswer}
	}

	symptom := s.pending
	s.pending, s.hasPending = "", false
	s.observations[symptom] = value
	s.asked[symptom] = true
	s.current = s.model.Infer(s.observations)

	step := Step{
		SessionID: s.id,
		Number:    len(s.steps) + 1,
		Symptom:   symptom,
		Value:     value,
		Leading:   s.current.Leading(),
		At:        s.now(),
	}
	s.steps = append(s.steps, step)
	if s.observer != nil {
		s.observer.QuestionAnswered(step)
	}

	s.advance()
	return step.Leading, nil
}

// Finish terminates the session with the posterior over everything observed
// so far and returns the full ranking. Calling it again returns the same
// ranking without notifying the observer a second time.
func (s *Session) Finish() []model.Ranked {
	if s.state != Terminated {
		s.terminate(ReasonFinished)
	}
	return append([]model.Ranked(nil), s.transcript.Ranking...)
}

// Current returns the ranking implied by the answers so far.
func (s *Session) Current() []model.Ranked {
	return s.current.Ranked()
}

// Leading returns the current most probable condition.
func (s *Session) Leading() model.Ranked {
	return s.current.Leading()
}

// Observations returns a copy of the recorded answers.
func (s *Session) Observations() map[string]int {
	out := make(map[string]int, len(s.observations))
	for k, v := range s.observations {
		out[k] = v
	}
	return out
}

// Asked returns the number of accepted answers.
func (s *Session) Asked() int { return len(s.asked) }

// Remaining returns the number of symptoms not yet asked.
func (s *Session) Remaining() int { return s.model.NumSymptoms() - len(s.asked) }

// Steps returns the answer log in order.
func (s *Session) Steps() []Step {
	return append([]Step(nil), s.steps...)
}

// Transcript returns the session record. It is complete only once the
// session has terminated.
func (s *Session) Transcript() Transcript {
	if s.state == Terminated {
		return s.copyTranscript()
	}
	return Transcript{
		ID:        s.id,
		StartedAt: s.startedAt,
		Steps:     s.Steps(),
		Ranking:   s.Current(),
	}
}

// advance selects the next question or terminates.
func (s *Session) advance() {
	next, ok := s.model.SelectNext(s.asked)
	if !ok {
		s.terminate(ReasonExhausted)
		return
	}
	s.pending, s.hasPending = next, true
}

func (s *Session) terminate(reason Reason) {
	s.state = Terminated
	s.reason = reason
	s.pending, s.hasPending = "", false
	s.transcript = Transcript{
		ID:        s.id,
		StartedAt: s.startedAt,
		EndedAt:   s.now(),
		Reason:    reason,
		Steps:     s.Steps(),
		Ranking:   s.current.Ranked(),
	}
	if s.observer != nil {
		s.observer.SessionFinished(s.copyTranscript())
	}
}

func (s *Session) copyTranscript() Transcript {
	t := s.transcript
	t.Steps = append([]Step(nil), t.Steps...)
	t.Ranking = append([]model.Ranked(nil), t.Ranking...)
	return t
}
