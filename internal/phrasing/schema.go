package phrasing

import "github.com/abhisek/diagz/internal/llm"

// QuestionsSchema defines the JSON schema for a batch of phrased questions.
var QuestionsSchema = &llm.Schema{
	Name:        "symptom-questions",
	Description: "One yes/no patient question per symptom identifier",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"symptom": map[string]any{
							"type":        "string",
							"description": "The symptom identifier exactly as given",
						},
						"question": map[string]any{
							"type":        "string",
							"description": "A short yes/no question in plain language",
						},
					},
					"required":             []any{"symptom", "question"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You write questions for a symptom checker.
For every symptom identifier you receive, write one short yes/no question a patient can answer about themselves.
Use plain language, second person, and no medical jargon. Do not add advice or diagnoses.
Return the identifier unchanged in the "symptom" field.`
