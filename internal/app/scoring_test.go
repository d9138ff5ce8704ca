package app

import (
	"testing"

	"quizbot-service/internal/domain"
)

func TestScoreDelta(t *testing.T) {
	cases := []struct {
		correct    bool
		difficulty domain.Difficulty
		want       int
	}{
		{true, domain.DifficultyEasy, 1},
		{true, domain.DifficultyMedium, 2},
		{true, domain.DifficultyHard, 3},
		{false, domain.DifficultyEasy, -1},
		{false, domain.DifficultyMedium, -2},
		{false, domain.DifficultyHard, -3},
	}
	for _, tc := range cases {
		if got := ScoreDelta(tc.correct, tc.difficulty); got != tc.want {
			t.Errorf("ScoreDelta(%v, %s) = %d, want %d", tc.correct, tc.difficulty, got, tc.want)
		}
	}
}

func TestScoreDeltaUnknownDifficulty(t *testing.T) {
	if got := ScoreDelta(true, domain.Difficulty("nightmare")); got != 2 {
		t.Errorf("correct answer with unknown difficulty scored %d, want 2", got)
	}
	if got := ScoreDelta(false, domain.Difficulty("")); got != -2 {
		t.Errorf("incorrect answer with unknown difficulty scored %d, want -2", got)
	}
}
