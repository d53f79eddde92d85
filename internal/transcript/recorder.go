// Package transcript persists consultation sessions to the event store.
package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abhisek/diagz/internal/session"
	"github.com/abhisek/diagz/internal/store"
)

const writeTimeout = 5 * time.Second

// Recorder is a session.Observer that appends session and answer events to
// an EventRepo. Write failures are reported as warnings and never reach the
// session.
type Recorder struct {
	repo    store.EventRepo
	dataset string

	// Question returns the display text asked for a symptom. Nil records
	// the symptom identifier only.
	Question func(symptom string) string

	// Warn receives write failures. Defaults to stderr.
	Warn io.Writer
}

// NewRecorder creates a Recorder for sessions over the named dataset.
func NewRecorder(repo store.EventRepo, dataset string) *Recorder {
	return &Recorder{repo: repo, dataset: dataset, Warn: os.Stderr}
}

func (r *Recorder) SessionStarted(info session.Info) {
	r.write("session start", func(ctx context.Context) error {
		return r.repo.AppendSessionEvent(ctx, store.SessionEventData{
			SessionID:  info.ID,
			Action:     store.ActionStart,
			Dataset:    r.dataset,
			Symptoms:   info.Symptoms,
			Conditions: info.Conditions,
		})
	})
}

func (r *Recorder) QuestionAnswered(step session.Step) {
	r.write("answer", func(ctx context.Context) error {
		data := store.AnswerEventData{
			SessionID:          step.SessionID,
			Step:               step.Number,
			Symptom:            step.Symptom,
			Value:              step.Value,
			LeadingCondition:   step.Leading.Condition,
			LeadingProbability: step.Leading.Probability,
		}
		if r.Question != nil {
			data.Question = r.Question(step.Symptom)
		}
		return r.repo.AppendAnswerEvent(ctx, data)
	})
}

func (r *Recorder) SessionFinished(t session.Transcript) {
	r.write("session end", func(ctx context.Context) error {
		ranking, err := json.Marshal(t.Ranking)
		if err != nil {
			return fmt.Errorf("marshal ranking: %w", err)
		}
		top := t.Top()
		return r.repo.AppendSessionEvent(ctx, store.SessionEventData{
			SessionID:         t.ID,
			Action:            store.ActionEnd,
			Reason:            string(t.Reason),
			QuestionsAnswered: len(t.Steps),
			TopCondition:      top.Condition,
			TopProbability:    top.Probability,
			RankingJSON:       string(ranking),
			DurationMs:        t.Duration().Milliseconds(),
		})
	})
}

func (r *Recorder) write(what string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := fn(ctx); err != nil && r.Warn != nil {
		fmt.Fprintf(r.Warn, "warning: failed to record %s: %v\n", what, err)
	}
}
