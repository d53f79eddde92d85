package phrasing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/diagz/internal/llm"
)

// LLM phrases symptoms with a language model. Symptoms the model skips, and
// every symptom of a failed batch, get the heuristic question.
type LLM struct {
	provider llm.Provider
	cfg      Config
}

// NewLLM creates an LLM phraser.
func NewLLM(provider llm.Provider, cfg Config) *LLM {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	return &LLM{provider: provider, cfg: cfg}
}

type questionsOutput struct {
	Questions []questionOutput `json:"questions"`
}

type questionOutput struct {
	Symptom  string `json:"symptom"`
	Question string `json:"question"`
}

// Phrase returns a question for every symptom. The error joins the failures
// of individual batches; the map is complete regardless.
func (p *LLM) Phrase(ctx context.Context, symptoms []string) (map[string]string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposePhrasing)

	out := make(map[string]string, len(symptoms))
	var errs []error
	for start := 0; start < len(symptoms); start += p.cfg.BatchSize {
		batch := symptoms[start:min(start+p.cfg.BatchSize, len(symptoms))]

		got, err := p.phraseBatch(ctx, batch)
		if err != nil {
			errs = append(errs, fmt.Errorf("symptoms %d-%d: %w", start+1, start+len(batch), err))
		}
		for _, s := range batch {
			if q := strings.TrimSpace(got[s]); q != "" {
				out[s] = q
			} else {
				out[s] = Question(s)
			}
		}
		if ctx.Err() != nil {
			// Remaining batches would fail the same way.
			for _, s := range symptoms[start+len(batch):] {
				out[s] = Question(s)
			}
			errs = append(errs, ctx.Err())
			break
		}
	}
	return out, errors.Join(errs...)
}

func (p *LLM) phraseBatch(ctx context.Context, batch []string) (map[string]string, error) {
	req := llm.Prompt(systemPrompt, buildUserMessage(batch), QuestionsSchema, p.cfg.MaxTokens)
	req.Temperature = p.cfg.Temperature

	resp, err := p.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("phrasing request: %w", err)
	}

	var parsed questionsOutput
	if err := json.Unmarshal(resp.Content, &parsed); err != nil {
		return nil, fmt.Errorf("parse phrasing response: %w", err)
	}

	want := make(map[string]bool, len(batch))
	for _, s := range batch {
		want[s] = true
	}
	got := make(map[string]string, len(parsed.Questions))
	for _, q := range parsed.Questions {
		if want[q.Symptom] {
			got[q.Symptom] = q.Question
		}
	}
	return got, nil
}

func buildUserMessage(batch []string) string {
	var b strings.Builder
	b.WriteString("Symptom identifiers:\n")
	for _, s := range batch {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	return b.String()
}
