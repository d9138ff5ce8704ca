package quizgen

import "quizbot-service/internal/llm"

// QuizSchema defines the JSON schema for quiz generation responses.
var QuizSchema = &llm.Schema{
	Name:        "quiz",
	Description: "A multiple-choice quiz with questions, options, answers and explanations",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{
				"type":        "string",
				"description": "The topic of the quiz",
			},
			"questions": map[string]any{
				"type":        "array",
				"description": "The quiz questions, in order",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question prompt shown to the player",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 answer options",
						},
						"correct_answer": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     3,
							"description": "Zero-based index of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the correct option is correct",
						},
						"difficulty": map[string]any{
							"type":        "string",
							"enum":        []any{"easy", "medium", "hard"},
							"description": "Difficulty tier of the question",
						},
					},
					"required":             []any{"question", "options", "correct_answer", "explanation", "difficulty"},
					"additionalProperties": false,
				},
			},
			"total_questions": map[string]any{
				"type":        "integer",
				"description": "Total number of questions in the quiz",
			},
		},
		"required":             []any{"topic", "questions", "total_questions"},
		"additionalProperties": false,
	},
}
