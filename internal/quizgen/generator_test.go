package quizgen

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizbot-service/internal/domain"
	"quizbot-service/internal/llm"
)

func validQuiz(topic string, n int) domain.Quiz {
	questions := make([]domain.Question, n)
	for i := range questions {
		questions[i] = domain.Question{
			Prompt:        "Which planet is known as the red planet?",
			Options:       []string{"Venus", "Mars", "Jupiter", "Saturn"},
			CorrectAnswer: 1,
			Explanation:   "Mars appears red because of iron oxide on its surface.",
			Difficulty:    domain.DifficultyMedium,
		}
	}
	return domain.Quiz{Topic: topic, Questions: questions, TotalQuestions: n}
}

func quizJSON(t *testing.T, quiz domain.Quiz) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(quiz)
	require.NoError(t, err)
	return data
}

func TestGenerateReturnsParsedQuiz(t *testing.T) {
	want := validQuiz("Astronomy", 3)
	provider := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(t, want)})
	gen := New(provider, DefaultConfig())

	got, err := gen.Generate(context.Background(), domain.QuizSpec{
		Topic:        "Astronomy",
		NumQuestions: 3,
		Difficulty:   domain.DifficultyMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, provider.CallCount())
}

func TestGenerateSendsSchemaAndPrompt(t *testing.T) {
	provider := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(t, validQuiz("Go", 2))})
	gen := New(provider, DefaultConfig())

	_, err := gen.Generate(context.Background(), domain.QuizSpec{
		Topic:        "Go",
		NumQuestions: 2,
		Difficulty:   domain.DifficultyHard,
	})
	require.NoError(t, err)

	require.Len(t, provider.Calls, 1)
	req := provider.Calls[0]
	assert.Equal(t, QuizSchema, req.Schema)
	assert.Equal(t, systemPrompt, req.System)
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content, "Topic: Go")
	assert.Contains(t, req.Messages[0].Content, "Number of questions: 2")
	assert.Contains(t, req.Messages[0].Content, "Difficulty level: hard")
}

func TestGenerateFallsBackOnProviderError(t *testing.T) {
	provider := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	gen := New(provider, DefaultConfig())

	spec := domain.QuizSpec{Topic: "History", NumQuestions: 4, Difficulty: domain.DifficultyEasy}
	quiz, err := gen.Generate(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, Fallback(spec), quiz)
	assert.Len(t, quiz.Questions, 4)
}

func TestGenerateFallsBackOnMalformedResponse(t *testing.T) {
	provider := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"topic": 42`)})
	gen := New(provider, DefaultConfig())

	spec := domain.QuizSpec{Topic: "History", NumQuestions: 2, Difficulty: domain.DifficultyMedium}
	quiz, err := gen.Generate(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, Fallback(spec), quiz)
}

func TestGenerateFallsBackOnWrongQuestionCount(t *testing.T) {
	provider := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(t, validQuiz("History", 3))})
	gen := New(provider, DefaultConfig())

	spec := domain.QuizSpec{Topic: "History", NumQuestions: 5, Difficulty: domain.DifficultyMedium}
	quiz, err := gen.Generate(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, Fallback(spec), quiz)
	// The count invariant holds even under upstream failure.
	assert.Len(t, quiz.Questions, 5)
}

func TestGenerateFallsBackOnBadCorrectIndex(t *testing.T) {
	bad := validQuiz("History", 2)
	bad.Questions[1].CorrectAnswer = 4
	provider := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(t, bad)})
	gen := New(provider, DefaultConfig())

	spec := domain.QuizSpec{Topic: "History", NumQuestions: 2, Difficulty: domain.DifficultyMedium}
	quiz, err := gen.Generate(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, Fallback(spec), quiz)
}

func TestGenerateFallsBackOnCountMismatch(t *testing.T) {
	bad := validQuiz("History", 2)
	bad.TotalQuestions = 7
	provider := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(t, bad)})
	gen := New(provider, DefaultConfig())

	spec := domain.QuizSpec{Topic: "History", NumQuestions: 2, Difficulty: domain.DifficultyMedium}
	quiz, err := gen.Generate(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, Fallback(spec), quiz)
}

func TestGenerateDoesNotRetry(t *testing.T) {
	provider := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrRateLimit{}},
		llm.MockResponse{Content: quizJSON(t, validQuiz("History", 1))},
	)
	gen := New(provider, DefaultConfig())

	spec := domain.QuizSpec{Topic: "History", NumQuestions: 1, Difficulty: domain.DifficultyMedium}
	quiz, err := gen.Generate(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, Fallback(spec), quiz)
	assert.Equal(t, 1, provider.CallCount())
}
