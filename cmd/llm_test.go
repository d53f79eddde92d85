package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/diagz/internal/store"
)

func llmEvent(id int, purpose string, success bool) store.LLMRequestEvent {
	return store.LLMRequestEvent{
		ID:        id,
		Timestamp: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		LLMRequestEventData: store.LLMRequestEventData{
			Provider:     "anthropic",
			Model:        "claude-haiku-4-5-20251001-with-a-long-suffix",
			Purpose:      purpose,
			InputTokens:  120,
			OutputTokens: 45,
			LatencyMs:    830,
			Success:      success,
		},
	}
}

func TestWriteLLMEvents(t *testing.T) {
	events := []store.LLMRequestEvent{
		llmEvent(2, "phrasing", false),
		llmEvent(1, "unknown", true),
	}

	tests := []struct {
		name    string
		purpose string
		rows    int
		want    []string
		notWant []string
	}{
		{
			name:    "all events",
			rows:    2,
			want:    []string{"phrasing", "unknown", "✗", "✓", "claude-haiku-4-5-20251001-wi"},
			notWant: []string{"with-a-long-suffix"},
		},
		{
			name:    "filtered by purpose",
			purpose: "phrasing",
			rows:    1,
			want:    []string{"phrasing", "✗"},
			notWant: []string{"unknown"},
		},
		{
			name:    "nothing matches",
			purpose: "lesson",
			want:    []string{"No LLM events found."},
			notWant: []string{"Timestamp"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			writeLLMEvents(&out, events, tt.purpose)

			s := out.String()
			for _, w := range tt.want {
				assert.Contains(t, s, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, s, w)
			}
			if tt.rows > 0 {
				lines := strings.Split(strings.TrimSpace(s), "\n")
				assert.Len(t, lines, tt.rows+2)
			}
		})
	}
}

func TestWriteLLMEvent(t *testing.T) {
	e := llmEvent(7, "phrasing", false)
	e.ErrorMessage = "rate limited"
	e.RequestBody = "[user]\nfever"

	var out bytes.Buffer
	writeLLMEvent(&out, &e)

	s := out.String()
	assert.Contains(t, s, "ID:        7")
	assert.Contains(t, s, "Tokens:    120 in / 45 out")
	assert.Contains(t, s, "Error:     rate limited")
	assert.Contains(t, s, "REQUEST")
	assert.Contains(t, s, "[user]\nfever")
	assert.Equal(t, 1, strings.Count(s, "(not captured)"))
}

func TestWriteUsage(t *testing.T) {
	var out bytes.Buffer
	writeUsage(&out, "Purpose", []store.LLMUsage{
		{Key: "phrasing", Calls: 3, InputTokens: 300, OutputTokens: 120, AvgLatencyMs: 900},
		{Key: "unknown", Calls: 1, InputTokens: 10, OutputTokens: 5, AvgLatencyMs: 100},
	})

	s := out.String()
	assert.Contains(t, s, "Usage by Purpose")
	assert.Regexp(t, `phrasing\s+3\s+300\s+120\s+420\s+900`, s)
	assert.Regexp(t, `TOTAL\s+4\s+310\s+125\s+435`, s)
}
