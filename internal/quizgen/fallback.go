package quizgen

import (
	"fmt"

	"quizbot-service/internal/domain"
)

// Fallback synthesizes a deterministic placeholder quiz, used whenever live
// generation fails. The explanation says so explicitly rather than passing
// placeholder content off as authoritative. The result always passes
// Validate.
func Fallback(spec domain.QuizSpec) domain.Quiz {
	questions := make([]domain.Question, spec.NumQuestions)
	for i := range questions {
		questions[i] = domain.Question{
			Prompt: fmt.Sprintf("What is an important concept related to %s? (Question %d)", spec.Topic, i+1),
			Options: []string{
				fmt.Sprintf("Option A about %s", spec.Topic),
				fmt.Sprintf("Option B about %s", spec.Topic),
				fmt.Sprintf("Option C about %s", spec.Topic),
				fmt.Sprintf("Option D about %s", spec.Topic),
			},
			CorrectAnswer: 0,
			Explanation:   fmt.Sprintf("This is a fallback question about %s: live quiz generation was unavailable.", spec.Topic),
			Difficulty:    spec.Difficulty,
		}
	}

	return domain.Quiz{
		Topic:          spec.Topic,
		Questions:      questions,
		TotalQuestions: spec.NumQuestions,
		Fallback:       true,
	}
}
