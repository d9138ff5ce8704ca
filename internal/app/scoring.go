package app

import "quizbot-service/internal/domain"

// scoreKey selects a scoring rule by submission outcome and question tier.
type scoreKey struct {
	correct    bool
	difficulty domain.Difficulty
}

// scoringRules is the fixed (correctness, difficulty) -> delta table.
// Never mutated at runtime.
var scoringRules = map[scoreKey]int{
	{true, domain.DifficultyEasy}:    1,
	{true, domain.DifficultyMedium}:  2,
	{true, domain.DifficultyHard}:    3,
	{false, domain.DifficultyEasy}:   -1,
	{false, domain.DifficultyMedium}: -2,
	{false, domain.DifficultyHard}:   -3,
}

// ScoreDelta returns the signed point delta for an answer. Questions with an
// unknown difficulty score as medium.
func ScoreDelta(correct bool, difficulty domain.Difficulty) int {
	if delta, ok := scoringRules[scoreKey{correct, difficulty}]; ok {
		return delta
	}
	return scoringRules[scoreKey{correct, domain.DifficultyMedium}]
}
