package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repositories.
const (
	tableSessionEvents = "session_events"
	tableAnswerEvents  = "answer_events"
	tableLLMEvents     = "llm_request_events"
	tablePhrasings     = "symptom_phrasings"
	tableSequence      = "global_sequence"
)

// eventColumns are carried by every event table: a row id, the global
// sequence number and the wall-clock time of the append.
func eventColumns(extra ...*schema.Column) []*schema.Column {
	cols := []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}
	return append(cols, extra...)
}

func textColumn(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeString, Size: 2147483647, Default: ""}
}

var (
	sessionEventsColumns = eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "action", Type: field.TypeEnum, Enums: []string{"start", "end"}},
		&schema.Column{Name: "dataset", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "symptom_count", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "condition_count", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "reason", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "questions_answered", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "top_condition", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "top_probability", Type: field.TypeFloat64, Default: 0},
		textColumn("ranking"),
		&schema.Column{Name: "duration_ms", Type: field.TypeInt64, Default: 0},
	)
	sessionEventsTable = &schema.Table{
		Name:       tableSessionEvents,
		Columns:    sessionEventsColumns,
		PrimaryKey: []*schema.Column{sessionEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "sessionevent_session_id_action", Columns: []*schema.Column{sessionEventsColumns[3], sessionEventsColumns[4]}},
		},
	}

	answerEventsColumns = eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "step", Type: field.TypeInt},
		&schema.Column{Name: "symptom", Type: field.TypeString},
		textColumn("question"),
		&schema.Column{Name: "value", Type: field.TypeInt},
		&schema.Column{Name: "leading_condition", Type: field.TypeString},
		&schema.Column{Name: "leading_probability", Type: field.TypeFloat64},
	)
	answerEventsTable = &schema.Table{
		Name:       tableAnswerEvents,
		Columns:    answerEventsColumns,
		PrimaryKey: []*schema.Column{answerEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "answerevent_session_id", Columns: []*schema.Column{answerEventsColumns[3]}},
		},
	}

	llmEventsColumns = eventColumns(
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64},
		&schema.Column{Name: "success", Type: field.TypeBool},
		textColumn("error_message"),
		textColumn("request_body"),
		textColumn("response_body"),
	)
	llmEventsTable = &schema.Table{
		Name:       tableLLMEvents,
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
	}

	phrasingsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "dataset_key", Type: field.TypeString},
		{Name: "symptom", Type: field.TypeString},
		textColumn("question"),
		{Name: "source", Type: field.TypeString},
		{Name: "updated_at", Type: field.TypeTime},
	}
	phrasingsTable = &schema.Table{
		Name:       tablePhrasings,
		Columns:    phrasingsColumns,
		PrimaryKey: []*schema.Column{phrasingsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "phrasing_dataset_key_symptom", Unique: true, Columns: []*schema.Column{phrasingsColumns[1], phrasingsColumns[2]}},
		},
	}

	sequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	sequenceTable = &schema.Table{
		Name:       tableSequence,
		Columns:    sequenceColumns,
		PrimaryKey: []*schema.Column{sequenceColumns[0]},
	}

	tables = []*schema.Table{
		sequenceTable,
		sessionEventsTable,
		answerEventsTable,
		llmEventsTable,
		phrasingsTable,
	}
)

// migrate creates or updates the tables above.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
