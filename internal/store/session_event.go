package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	if data.Action != ActionStart && data.Action != ActionEnd {
		return fmt.Errorf("invalid session action %q", data.Action)
	}
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ins := builder().Insert(tableSessionEvents).
		Columns(
			"sequence", "timestamp", "session_id", "action",
			"dataset", "symptom_count", "condition_count",
			"reason", "questions_answered", "top_condition", "top_probability",
			"ranking", "duration_ms",
		).
		Values(
			seqNum, time.Now().UTC(), data.SessionID, data.Action,
			data.Dataset, data.Symptoms, data.Conditions,
			data.Reason, data.QuestionsAnswered, data.TopCondition, data.TopProbability,
			data.RankingJSON, data.DurationMs,
		)
	if err := r.exec(ctx, ins); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ins := builder().Insert(tableAnswerEvents).
		Columns(
			"sequence", "timestamp", "session_id", "step", "symptom", "question",
			"value", "leading_condition", "leading_probability",
		).
		Values(
			seqNum, time.Now().UTC(), data.SessionID, data.Step, data.Symptom, data.Question,
			data.Value, data.LeadingCondition, data.LeadingProbability,
		)
	if err := r.exec(ctx, ins); err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummary, error) {
	sel := builder().Select("session_id", "timestamp", "dataset", "symptom_count", "condition_count").
		From(builder().Table(tableSessionEvents)).
		Where(entsql.EQ("action", ActionStart)).
		OrderBy(entsql.Desc("sequence"))
	applyOpts(sel, opts)

	summaries, err := r.querySummaries(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	return summaries, nil
}

func (r *eventRepo) GetSessionSummary(ctx context.Context, sessionID string) (*SessionSummary, error) {
	sel := builder().Select("session_id", "timestamp", "dataset", "symptom_count", "condition_count").
		From(builder().Table(tableSessionEvents)).
		Where(entsql.And(
			entsql.EQ("action", ActionStart),
			entsql.EQ("session_id", sessionID),
		))

	summaries, err := r.querySummaries(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("get session summary: %w", err)
	}
	if len(summaries) == 0 {
		return nil, nil
	}
	return &summaries[0], nil
}

// querySummaries reads start events from sel and fills in the matching end
// events with a second query.
func (r *eventRepo) querySummaries(ctx context.Context, sel *entsql.Selector) ([]SessionSummary, error) {
	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}

	var (
		out []SessionSummary
		ids []any
	)
	index := make(map[string]int)
	for rows.Next() {
		var s SessionSummary
		if err := rows.Scan(&s.SessionID, &s.StartedAt, &s.Dataset, &s.Symptoms, &s.Conditions); err != nil {
			rows.Close()
			return nil, err
		}
		index[s.SessionID] = len(out)
		ids = append(ids, s.SessionID)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(ids) == 0 {
		return out, nil
	}

	endSel := builder().Select(
		"session_id", "reason", "questions_answered", "top_condition",
		"top_probability", "ranking", "duration_ms",
	).
		From(builder().Table(tableSessionEvents)).
		Where(entsql.And(
			entsql.EQ("action", ActionEnd),
			entsql.In("session_id", ids...),
		))
	query, args = endSel.Query()
	endRows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, endRows); err != nil {
		return nil, err
	}
	defer endRows.Close()

	for endRows.Next() {
		var (
			id         string
			durationMs int64
			e          SessionSummary
		)
		if err := endRows.Scan(&id, &e.Reason, &e.QuestionsAnswered, &e.TopCondition,
			&e.TopProbability, &e.RankingJSON, &durationMs); err != nil {
			return nil, err
		}
		i, ok := index[id]
		if !ok {
			continue
		}
		s := &out[i]
		s.Reason = e.Reason
		s.QuestionsAnswered = e.QuestionsAnswered
		s.TopCondition = e.TopCondition
		s.TopProbability = e.TopProbability
		s.RankingJSON = e.RankingJSON
		s.Duration = time.Duration(durationMs) * time.Millisecond
	}
	return out, endRows.Err()
}

func (r *eventRepo) QueryAnswers(ctx context.Context, sessionID string) ([]AnswerEvent, error) {
	sel := builder().Select(
		"id", "sequence", "timestamp", "session_id", "step", "symptom", "question",
		"value", "leading_condition", "leading_probability",
	).
		From(builder().Table(tableAnswerEvents)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("step", "sequence")

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var out []AnswerEvent
	for rows.Next() {
		var a AnswerEvent
		if err := rows.Scan(&a.ID, &a.Sequence, &a.Timestamp, &a.SessionID, &a.Step,
			&a.Symptom, &a.Question, &a.Value, &a.LeadingCondition, &a.LeadingProbability); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	return out, nil
}
