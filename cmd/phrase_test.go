package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWritePhrasings(t *testing.T) {
	tests := []struct {
		name      string
		questions map[string]string
		want      string
	}{
		{"written by model", map[string]string{"skin_rash": "Have you noticed a rash?"}, "  llm:     Have you noticed a rash?"},
		{"skipped by model", map[string]string{}, "  llm:     (default)"},
		{"same as default", map[string]string{"skin_rash": "Do you have Skin rash?"}, "  llm:     (default)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			writePhrasings(&out, []string{"skin_rash"}, tt.questions)

			s := out.String()
			assert.Contains(t, s, "skin_rash\n")
			assert.Contains(t, s, "  default: Do you have Skin rash?")
			assert.Contains(t, s, tt.want)
		})
	}
}
