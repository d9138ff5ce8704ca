package app

import (
	"context"
	"time"

	"quizbot-service/internal/domain"
	"quizbot-service/internal/quizgen"
)

// QuizSource produces quizzes for a spec. It is either the generator itself
// or a cache wrapping it (in-memory, Redis).
type QuizSource interface {
	Generate(ctx context.Context, spec domain.QuizSpec) (domain.Quiz, error)
}

// QuizService contains the quiz use cases consumed by the transport layer.
type QuizService struct {
	source   QuizSource
	sessions *SessionStore
}

func NewQuizService(source QuizSource, sessions *SessionStore) *QuizService {
	return &QuizService{source: source, sessions: sessions}
}

// GenerateQuiz produces a quiz for the spec and opens a session for it.
// The generated quiz is re-validated before acceptance; a non-conformant
// quiz surfaces as *domain.ValidationError.
func (s *QuizService) GenerateQuiz(ctx context.Context, spec domain.QuizSpec) (domain.Quiz, string, error) {
	quiz, err := s.source.Generate(ctx, spec)
	if err != nil {
		return domain.Quiz{}, "", err
	}

	if problems := quizgen.Validate(quiz); len(problems) > 0 {
		return domain.Quiz{}, "", &domain.ValidationError{Problems: problems}
	}

	sessionID := s.sessions.Create(quiz)
	return quiz, sessionID, nil
}

// SubmitAnswer records an answer against a session.
func (s *QuizService) SubmitAnswer(sessionID string, questionIndex, selectedOption int) (domain.AnswerResult, error) {
	return s.sessions.SubmitAnswer(sessionID, questionIndex, selectedOption)
}

// Score returns the session's current standing.
func (s *QuizService) Score(sessionID string) (domain.ScoreSummary, error) {
	return s.sessions.Score(sessionID)
}

// Summary returns the full session view.
func (s *QuizService) Summary(sessionID string) (domain.SessionSummary, error) {
	return s.sessions.Summary(sessionID)
}

// Reset clears a session's progress.
func (s *QuizService) Reset(sessionID string) error {
	return s.sessions.Reset(sessionID)
}

// Delete removes a session; absent ids are a silent no-op.
func (s *QuizService) Delete(sessionID string) {
	s.sessions.Delete(sessionID)
}

// SweepExpired removes sessions inactive longer than maxAge.
func (s *QuizService) SweepExpired(maxAge time.Duration) int {
	return s.sessions.SweepExpired(maxAge)
}

// Leaderboard returns the ranked snapshot of active sessions.
func (s *QuizService) Leaderboard(limit int) domain.Leaderboard {
	return s.sessions.Leaderboard(limit)
}

// WatchLeaderboard subscribes to leaderboard updates. The caller must
// invoke the returned cancel function to avoid leaks.
func (s *QuizService) WatchLeaderboard() (<-chan domain.Leaderboard, func()) {
	return s.sessions.Watch()
}
