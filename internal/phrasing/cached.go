package phrasing

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/diagz/internal/store"
)

// Cached serves questions from the store and asks the inner Phraser only for
// symptoms it has not seen for this dataset. Only questions the inner Phraser
// actually wrote are stored; heuristic fallbacks, from a failed batch or a
// symptom the model skipped, are returned but asked again on the next run.
type Cached struct {
	inner  Phraser
	repo   store.PhrasingRepo
	key    string
	source string
}

// NewCached wraps inner with the phrasing cache. key identifies the dataset
// vocabulary (see dataset.Fingerprint) and source labels stored entries.
func NewCached(inner Phraser, repo store.PhrasingRepo, key, source string) *Cached {
	return &Cached{inner: inner, repo: repo, key: key, source: source}
}

func (c *Cached) Phrase(ctx context.Context, symptoms []string) (map[string]string, error) {
	cached, err := c.repo.Get(ctx, c.key, symptoms)
	if err != nil {
		out, perr := c.inner.Phrase(ctx, symptoms)
		return out, errors.Join(fmt.Errorf("read phrasing cache: %w", err), perr)
	}

	out := make(map[string]string, len(symptoms))
	var missing []string
	for _, s := range symptoms {
		if p, ok := cached[s]; ok && p.Question != "" {
			out[s] = p.Question
			continue
		}
		missing = append(missing, s)
	}
	if len(missing) == 0 {
		return out, nil
	}

	fresh, err := c.inner.Phrase(ctx, missing)
	var entries []store.Phrasing
	for _, s := range missing {
		out[s] = Lookup(fresh)(s)
		if out[s] != Question(s) {
			entries = append(entries, store.Phrasing{Symptom: s, Question: out[s], Source: c.source})
		}
	}
	if len(entries) == 0 {
		return out, err
	}
	if perr := c.repo.Put(ctx, c.key, entries); perr != nil {
		return out, errors.Join(err, fmt.Errorf("cache phrasings: %w", perr))
	}
	return out, err
}
