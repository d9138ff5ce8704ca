package quizgen

import (
	"fmt"
	"strings"

	"quizbot-service/internal/domain"
)

const systemPrompt = `You are an expert quiz generator. Create a comprehensive multiple-choice quiz on the given topic.

Rules:
- Generate exactly the requested number of questions.
- Each question must have exactly 4 options with exactly one correct option.
- correct_answer is the zero-based index (0-3) of the correct option.
- Provide a clear explanation for every correct answer.
- Make questions engaging and educational; cover different aspects of the topic.
- Avoid ambiguous questions.
- Set total_questions to the number of questions generated.

Difficulty levels:
- easy: basic concepts, definitions, simple facts.
- medium: application of concepts, moderate analysis.
- hard: complex analysis, advanced concepts, critical thinking.`

// buildUserMessage constructs the user message for a quiz request.
func buildUserMessage(spec domain.QuizSpec) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", strings.TrimSpace(spec.Topic))
	fmt.Fprintf(&b, "Number of questions: %d\n", spec.NumQuestions)
	fmt.Fprintf(&b, "Difficulty level: %s\n", spec.Difficulty)
	b.WriteString("\nGenerate the quiz now.")

	return b.String()
}
