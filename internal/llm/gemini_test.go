package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.5-flash", "gemini-2.5-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	schema := buildGeminiSchema(questionsSchema().Definition)

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "questions" {
		t.Fatalf("unexpected required: %v", schema.Required)
	}

	questions := schema.Properties["questions"]
	if questions == nil || questions.Type != genai.TypeArray {
		t.Fatalf("expected ARRAY for questions, got %+v", questions)
	}
	item := questions.Items
	if item == nil || item.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT items, got %+v", item)
	}
	if item.Properties["question"].Type != genai.TypeString {
		t.Fatalf("expected STRING for question, got %s", item.Properties["question"].Type)
	}
	if len(item.Required) != 2 {
		t.Fatalf("expected 2 required item fields, got %v", item.Required)
	}
}

func TestBuildGeminiSchema_DecodedJSON(t *testing.T) {
	schema := buildGeminiSchema(map[string]any{
		"type": "string",
		"enum": []any{"yes", "no"},
	})
	if schema.Type != genai.TypeString || len(schema.Enum) != 2 {
		t.Fatalf("unexpected schema: %+v", schema)
	}

	unknown := buildGeminiSchema(map[string]any{"type": "null"})
	if unknown.Type != genai.TypeString {
		t.Fatalf("unknown type should fall back to STRING, got %s", unknown.Type)
	}
}
