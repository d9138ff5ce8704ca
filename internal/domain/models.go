package domain

import "time"

// Difficulty grades a question and drives the scoring delta lookup.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the three known tiers.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question models an MCQ question with exactly 4 options and one correct index.
type Question struct {
	Prompt        string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"correct_answer"`
	Explanation   string     `json:"explanation"`
	Difficulty    Difficulty `json:"difficulty"`
}

// Quiz is an ordered collection of questions on a topic.
// TotalQuestions is carried on the wire and checked against len(Questions)
// by the validator rather than being derived.
type Quiz struct {
	Topic          string     `json:"topic"`
	Questions      []Question `json:"questions"`
	TotalQuestions int        `json:"total_questions"`

	// Fallback marks a quiz synthesized offline after generation failed.
	// Not part of the wire format; caches must not store degraded content.
	Fallback bool `json:"-"`
}

// QuizSpec describes a quiz to generate.
type QuizSpec struct {
	Topic        string     `json:"topic"`
	NumQuestions int        `json:"num_questions"`
	Difficulty   Difficulty `json:"difficulty"`
}

// AnswerRecord is one entry in a session's append-only answer log.
type AnswerRecord struct {
	QuestionIndex  int       `json:"question_index"`
	SelectedOption int       `json:"selected_option"`
	Correct        bool      `json:"is_correct"`
	ScoreDelta     int       `json:"score_change"`
	SubmittedAt    time.Time `json:"timestamp"`
}

// AnswerResult summarizes the outcome of a single submission.
type AnswerResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer int    `json:"correct_answer"`
	Explanation   string `json:"explanation"`
	ScoreDelta    int    `json:"score_change"`
}

// ScoreSummary is the current standing of a session.
type ScoreSummary struct {
	Score      int     `json:"current_score"`
	Answered   int     `json:"total_questions_answered"`
	Correct    int     `json:"correct_answers"`
	Incorrect  int     `json:"incorrect_answers"`
	Percentage float64 `json:"percentage"`
}

// SessionSummary is the full read-only view of a session.
type SessionSummary struct {
	SessionID      string         `json:"session_id"`
	Topic          string         `json:"quiz_topic"`
	TotalQuestions int            `json:"total_questions"`
	Score          int            `json:"score"`
	Answered       int            `json:"questions_answered"`
	Correct        int            `json:"correct_answers"`
	Incorrect      int            `json:"incorrect_answers"`
	Percentage     float64        `json:"percentage"`
	StartedAt      time.Time      `json:"started_at"`
	LastActivity   time.Time      `json:"last_activity"`
	Answers        []AnswerRecord `json:"answers"`
}

// LeaderboardEntry is a ranked snapshot of one session. SessionID carries
// only a prefix of the real identifier; full ids are not for public display.
type LeaderboardEntry struct {
	SessionID  string  `json:"session_id"`
	Topic      string  `json:"topic"`
	Score      int     `json:"score"`
	Percentage float64 `json:"percentage"`
	Answered   int     `json:"questions_answered"`
}

// Leaderboard captures the ordered ranking across sessions.
type Leaderboard struct {
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
