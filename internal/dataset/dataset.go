package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSymptoms is returned when the table has no symptom columns.
	ErrNoSymptoms = errors.New("dataset has no symptom columns")

	// ErrNoRecords is returned when the table has no records.
	ErrNoRecords = errors.New("dataset has no records")
)

// RowError reports a malformed record. Line is 1-based and counts the
// header when the record came from a CSV file.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Record is one labeled observation: one 0/1 value per symptom column and
// the condition label.
type Record struct {
	Values []uint8
	Label  string
}

// Dataset is an immutable in-memory table of labeled symptom records.
type Dataset struct {
	name     string
	symptoms []string
	records  []Record
	labels   []string
}

// New validates the table and returns a Dataset. Symptom order and label
// discovery order are preserved.
func New(name string, symptoms []string, records []Record) (*Dataset, error) {
	if len(symptoms) == 0 {
		return nil, ErrNoSymptoms
	}
	seen := make(map[string]bool, len(symptoms))
	for i, s := range symptoms {
		if strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("symptom column %d has an empty name", i+1)
		}
		if seen[s] {
			return nil, fmt.Errorf("duplicate symptom column %q", s)
		}
		seen[s] = true
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	ds := &Dataset{
		name:     name,
		symptoms: append([]string(nil), symptoms...),
		records:  make([]Record, len(records)),
	}
	known := make(map[string]bool)
	for i, r := range records {
		if err := validateRecord(r, len(symptoms)); err != nil {
			return nil, &RowError{Line: i + 1, Err: err}
		}
		ds.records[i] = Record{
			Values: append([]uint8(nil), r.Values...),
			Label:  r.Label,
		}
		if !known[r.Label] {
			known[r.Label] = true
			ds.labels = append(ds.labels, r.Label)
		}
	}
	return ds, nil
}

func validateRecord(r Record, width int) error {
	if len(r.Values) != width {
		return fmt.Errorf("has %d symptom values, want %d", len(r.Values), width)
	}
	for j, v := range r.Values {
		if v > 1 {
			return fmt.Errorf("symptom %d has value %d, want 0 or 1", j+1, v)
		}
	}
	if strings.TrimSpace(r.Label) == "" {
		return errors.New("empty condition label")
	}
	return nil
}

// Name is a display name for the dataset, usually the source file name.
func (d *Dataset) Name() string { return d.name }

// Symptoms returns the symptom columns in their original order.
func (d *Dataset) Symptoms() []string {
	return append([]string(nil), d.symptoms...)
}

// Labels returns the distinct condition labels in order of first appearance.
func (d *Dataset) Labels() []string {
	return append([]string(nil), d.labels...)
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Record returns the i-th record. The returned values must not be modified.
func (d *Dataset) Record(i int) Record { return d.records[i] }
