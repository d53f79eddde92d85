package dataset

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadCSV reads a dataset from a CSV file. See ReadCSV for the format.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return ReadCSV(filepath.Base(path), f)
}

// ReadCSV parses a header row followed by records. The last column is the
// condition label; every preceding column is a 0/1 symptom indicator.
// Blank lines are skipped.
func ReadCSV(name string, r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoSymptoms
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) < 2 {
		return nil, ErrNoSymptoms
	}
	symptoms := header[:len(header)-1]

	var records []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(row) != len(header) {
			return nil, &RowError{
				Line: line,
				Err:  fmt.Errorf("has %d fields, want %d", len(row), len(header)),
			}
		}

		rec := Record{
			Values: make([]uint8, len(symptoms)),
			Label:  strings.TrimSpace(row[len(row)-1]),
		}
		if rec.Label == "" {
			return nil, &RowError{Line: line, Err: errors.New("empty condition label")}
		}
		for j := range symptoms {
			v, err := parseIndicator(row[j])
			if err != nil {
				return nil, &RowError{
					Line: line,
					Err:  fmt.Errorf("column %q: %w", symptoms[j], err),
				}
			}
			rec.Values[j] = v
		}
		records = append(records, rec)
	}

	return New(name, symptoms, records)
}

// parseIndicator accepts "0", "1" and their float spellings ("0.0", "1.0").
func parseIndicator(cell string) (uint8, error) {
	cell = strings.TrimSpace(cell)
	switch cell {
	case "0":
		return 0, nil
	case "1":
		return 1, nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid indicator %q", cell)
	}
	switch f {
	case 0:
		return 0, nil
	case 1:
		return 1, nil
	}
	return 0, fmt.Errorf("indicator %q is not 0 or 1", cell)
}

// Fingerprint identifies the symptom vocabulary of a dataset. Two datasets
// with the same symptom columns in the same order share a fingerprint.
func (d *Dataset) Fingerprint() string {
	h := sha256.New()
	for _, s := range d.symptoms {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
