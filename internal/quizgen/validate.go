package quizgen

import (
	"fmt"
	"strings"

	"quizbot-service/internal/domain"
)

// Validate re-checks every structural invariant of a quiz and returns the
// problems found. An empty slice means the quiz is fully conformant. Pure
// and side-effect free; it never panics on malformed input.
func Validate(quiz domain.Quiz) []string {
	var problems []string

	if len(strings.TrimSpace(quiz.Topic)) < 3 {
		problems = append(problems, "topic must be at least 3 characters long")
	}

	if len(quiz.Questions) == 0 {
		problems = append(problems, "quiz must have at least one question")
	}

	if quiz.TotalQuestions != len(quiz.Questions) {
		problems = append(problems, "total questions count doesn't match actual questions")
	}

	for i, q := range quiz.Questions {
		n := i + 1
		if len(strings.TrimSpace(q.Prompt)) < 5 {
			problems = append(problems, fmt.Sprintf("question %d must be at least 5 characters long", n))
		}
		if len(q.Options) != 4 {
			problems = append(problems, fmt.Sprintf("question %d must have exactly 4 options", n))
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer > 3 {
			problems = append(problems, fmt.Sprintf("question %d correct answer must be between 0 and 3", n))
		}
		if len(strings.TrimSpace(q.Explanation)) < 10 {
			problems = append(problems, fmt.Sprintf("question %d explanation must be at least 10 characters long", n))
		}
	}

	return problems
}
