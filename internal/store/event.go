package store

import (
	"context"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out the sequence number stamped on every event.
// Session, answer and LLM events live in separate tables, so their row IDs
// cannot order them against each other; the shared counter can. A
// consultation's start, answers, phrasing calls and end read back in the
// order they happened.
type sequenceCounter struct {
	mu  sync.Mutex
	drv *entsql.Driver
}

// newSequenceCounter seeds the counter row if the table is empty. The table
// itself is created by migrate.
func newSequenceCounter(ctx context.Context, drv *entsql.Driver) (*sequenceCounter, error) {
	seed := builder().Insert(tableSequence).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.DoNothing())
	query, args := seed.Query()
	if err := drv.Exec(ctx, query, args, nil); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{drv: drv}, nil
}

// Next returns the next sequence number. Reads and increments happen in one
// transaction so numbers are never reused across processes sharing the file.
func (sc *sequenceCounter) Next(ctx context.Context) (seq int64, err error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	tx, err := sc.drv.Tx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin sequence tx: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	query, args := builder().Select("next_val").
		From(builder().Table(tableSequence)).
		Where(entsql.EQ("id", 1)).
		Query()
	rows := &entsql.Rows{}
	if err = tx.Query(ctx, query, args, rows); err != nil {
		return 0, fmt.Errorf("read sequence: %w", err)
	}
	if !rows.Next() {
		rows.Close()
		return 0, fmt.Errorf("read sequence: counter row missing")
	}
	err = rows.Scan(&seq)
	rows.Close()
	if err != nil {
		return 0, fmt.Errorf("read sequence: %w", err)
	}

	query, args = builder().Update(tableSequence).
		Add("next_val", 1).
		Where(entsql.EQ("id", 1)).
		Query()
	if err = tx.Exec(ctx, query, args, nil); err != nil {
		return 0, fmt.Errorf("advance sequence: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sequence: %w", err)
	}
	return seq, nil
}
