package domain

import (
	"errors"
	"strings"
)

var (
	// ErrSessionNotFound is returned when a session id is not in the store.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuestionOutOfRange indicates a question index outside the quiz.
	ErrQuestionOutOfRange = errors.New("question index out of range")
)

// ValidationError aggregates the structural problems found in a quiz.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "quiz validation failed: " + strings.Join(e.Problems, "; ")
}
