package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// phrasingRepo implements PhrasingRepo.
type phrasingRepo struct {
	drv *entsql.Driver
}

func (r *phrasingRepo) Get(ctx context.Context, datasetKey string, symptoms []string) (map[string]Phrasing, error) {
	out := make(map[string]Phrasing)
	if len(symptoms) == 0 {
		return out, nil
	}

	args := make([]any, len(symptoms))
	for i, s := range symptoms {
		args[i] = s
	}
	sel := builder().Select("symptom", "question", "source").
		From(builder().Table(tablePhrasings)).
		Where(entsql.And(
			entsql.EQ("dataset_key", datasetKey),
			entsql.In("symptom", args...),
		))

	query, qargs := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, qargs, rows); err != nil {
		return nil, fmt.Errorf("query phrasings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p Phrasing
		if err := rows.Scan(&p.Symptom, &p.Question, &p.Source); err != nil {
			return nil, fmt.Errorf("scan phrasing: %w", err)
		}
		out[p.Symptom] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query phrasings: %w", err)
	}
	return out, nil
}

func (r *phrasingRepo) Put(ctx context.Context, datasetKey string, phrasings []Phrasing) error {
	if len(phrasings) == 0 {
		return nil
	}

	now := time.Now().UTC()
	ins := builder().Insert(tablePhrasings).
		Columns("dataset_key", "symptom", "question", "source", "updated_at")
	for _, p := range phrasings {
		ins.Values(datasetKey, p.Symptom, p.Question, p.Source, now)
	}
	ins.OnConflict(
		entsql.ConflictColumns("dataset_key", "symptom"),
		entsql.ResolveWithNewValues(),
	)

	query, args := ins.Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save phrasings: %w", err)
	}
	return nil
}
