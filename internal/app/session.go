package app

import (
	"sync"
	"time"

	"quizbot-service/internal/domain"
)

// Session binds one quiz to a mutable answer/score history. The quiz is
// immutable once the session is created; all mutation goes through submit
// and reset under the session mutex.
type Session struct {
	id   string
	quiz domain.Quiz
	now  func() time.Time

	mu           sync.Mutex
	score        int
	answers      []domain.AnswerRecord
	correct      int
	incorrect    int
	startedAt    time.Time
	lastActivity time.Time
}

func newSession(id string, quiz domain.Quiz, now func() time.Time) *Session {
	t := now()
	return &Session{
		id:           id,
		quiz:         quiz,
		now:          now,
		startedAt:    t,
		lastActivity: t,
	}
}

// submit scores one answer and appends it to the log. A bad question index
// aborts before any mutation. The selected option is compared for equality
// with the stored correct index; an out-of-list option simply counts as
// incorrect. Re-answering the same question appends a new attempt rather
// than correcting the old one.
func (s *Session) submit(questionIndex, selectedOption int) (domain.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if questionIndex < 0 || questionIndex >= len(s.quiz.Questions) {
		return domain.AnswerResult{}, domain.ErrQuestionOutOfRange
	}

	question := s.quiz.Questions[questionIndex]
	correct := selectedOption == question.CorrectAnswer
	delta := ScoreDelta(correct, question.Difficulty)

	if correct {
		s.correct++
	} else {
		s.incorrect++
	}
	s.score += delta

	now := s.now()
	s.answers = append(s.answers, domain.AnswerRecord{
		QuestionIndex:  questionIndex,
		SelectedOption: selectedOption,
		Correct:        correct,
		ScoreDelta:     delta,
		SubmittedAt:    now,
	})
	s.lastActivity = now

	return domain.AnswerResult{
		Correct:       correct,
		CorrectAnswer: question.CorrectAnswer,
		Explanation:   question.Explanation,
		ScoreDelta:    delta,
	}, nil
}

// reset zeroes score, counters and the answer log; the quiz and the session
// id stay as they are.
func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.score = 0
	s.answers = nil
	s.correct = 0
	s.incorrect = 0
	s.lastActivity = s.now()
}

func (s *Session) scoreSummary() domain.ScoreSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scoreSummaryLocked()
}

func (s *Session) scoreSummaryLocked() domain.ScoreSummary {
	answered := len(s.answers)
	percentage := 0.0
	if answered > 0 {
		percentage = float64(s.correct) / float64(answered) * 100
	}
	return domain.ScoreSummary{
		Score:      s.score,
		Answered:   answered,
		Correct:    s.correct,
		Incorrect:  s.incorrect,
		Percentage: percentage,
	}
}

func (s *Session) summary() domain.SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	score := s.scoreSummaryLocked()
	answers := make([]domain.AnswerRecord, len(s.answers))
	copy(answers, s.answers)

	return domain.SessionSummary{
		SessionID:      s.id,
		Topic:          s.quiz.Topic,
		TotalQuestions: s.quiz.TotalQuestions,
		Score:          score.Score,
		Answered:       score.Answered,
		Correct:        score.Correct,
		Incorrect:      score.Incorrect,
		Percentage:     score.Percentage,
		StartedAt:      s.startedAt,
		LastActivity:   s.lastActivity,
		Answers:        answers,
	}
}

func (s *Session) lastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// entry builds the leaderboard view of this session. Sessions without
// answers have no meaningful score and report ok=false.
func (s *Session) entry() (domain.LeaderboardEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.answers) == 0 {
		return domain.LeaderboardEntry{}, false
	}
	score := s.scoreSummaryLocked()
	return domain.LeaderboardEntry{
		SessionID:  shortID(s.id),
		Topic:      s.quiz.Topic,
		Score:      score.Score,
		Percentage: score.Percentage,
		Answered:   score.Answered,
	}, true
}

// shortID truncates a session id for public display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
