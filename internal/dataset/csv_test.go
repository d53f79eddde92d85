package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `itching,skin_rash,cough,prognosis
1,1,0,Fungal infection
0,0,1,Common Cold

1,0.0,0,Fungal infection
0,0,1.0,Common Cold
`

func TestReadCSV(t *testing.T) {
	ds, err := ReadCSV("sample.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"itching", "skin_rash", "cough"}, ds.Symptoms())
	assert.Equal(t, []string{"Fungal infection", "Common Cold"}, ds.Labels())
	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, []uint8{1, 0, 0}, ds.Record(2).Values)
	assert.Equal(t, []uint8{0, 0, 1}, ds.Record(3).Values)
}

func TestReadCSV_TrimsCellsAndBOM(t *testing.T) {
	in := "\ufeff a , b ,label\n1, 0 , flu \n"
	ds, err := ReadCSV("t", strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, ds.Symptoms())
	assert.Equal(t, []string{"flu"}, ds.Labels())
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		sentinel error
		line     int
	}{
		{name: "empty input", in: "", sentinel: ErrNoSymptoms},
		{name: "label column only", in: "label\nflu\n", sentinel: ErrNoSymptoms},
		{name: "header only", in: "a,label\n", sentinel: ErrNoRecords},
		{name: "short row", in: "a,b,label\n1,0,flu\n1,flu\n", line: 3},
		{name: "bad indicator", in: "a,label\n1,flu\n\nyes,cold\n", line: 4},
		{name: "out of range indicator", in: "a,label\n0.5,flu\n", line: 2},
		{name: "empty label", in: "a,label\n1, \n", line: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV("t", strings.NewReader(tt.in))
			require.Error(t, err)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
			if tt.line > 0 {
				var rowErr *RowError
				require.True(t, errors.As(err, &rowErr), "want *RowError, got %T: %v", err, err)
				assert.Equal(t, tt.line, rowErr.Line)
			}
		})
	}
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Training.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	ds, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, "Training.csv", ds.Name())

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFingerprint(t *testing.T) {
	a, err := ReadCSV("a", strings.NewReader("x,y,label\n1,0,p\n"))
	require.NoError(t, err)
	b, err := ReadCSV("b", strings.NewReader("x,y,label\n0,1,q\n1,1,q\n"))
	require.NoError(t, err)
	c, err := ReadCSV("c", strings.NewReader("y,x,label\n1,0,p\n"))
	require.NoError(t, err)

	assert.Len(t, a.Fingerprint(), 16)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
