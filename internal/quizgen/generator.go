package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"quizbot-service/internal/domain"
	"quizbot-service/internal/llm"
)

// Config tunes a Generator.
type Config struct {
	// MaxTokens caps the model response length.
	MaxTokens int
	// Temperature controls generation randomness.
	Temperature float64
	// Timeout bounds the single model round trip. A timeout is treated
	// like any other generation failure and routes to the fallback.
	Timeout time.Duration
}

// DefaultConfig returns the generator defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.7,
		Timeout:     30 * time.Second,
	}
}

// Generator produces quizzes via a model provider. Its Generate contract is
// total: when the model is unreachable, slow, or returns garbage, the
// deterministic fallback quiz is substituted and no error escapes.
type Generator struct {
	provider llm.Provider
	cfg      Config
}

// New creates a Generator with the given provider and config.
func New(provider llm.Provider, cfg Config) *Generator {
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Generator{provider: provider, cfg: cfg}
}

// Generate builds the prompt, performs one model round trip, parses and
// checks the result, and falls back on any failure. The returned quiz
// always has exactly spec.NumQuestions questions.
func (g *Generator) Generate(ctx context.Context, spec domain.QuizSpec) (domain.Quiz, error) {
	quiz, err := g.generateOnce(ctx, spec)
	if err != nil {
		log.Printf("quiz generation failed for topic %q, using fallback: %v", spec.Topic, err)
		return Fallback(spec), nil
	}
	return quiz, nil
}

func (g *Generator) generateOnce(ctx context.Context, spec domain.QuizSpec) (domain.Quiz, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(spec)},
		},
		Schema:      QuizSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("model call failed: %w", err)
	}

	var quiz domain.Quiz
	if err := json.Unmarshal(resp.Content, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("parse model response: %w", err)
	}

	if err := checkGenerated(quiz, spec); err != nil {
		return domain.Quiz{}, err
	}

	log.Printf("generated quiz on %q: %d questions, %d tokens",
		spec.Topic, len(quiz.Questions), resp.Usage.TotalTokens)
	return quiz, nil
}

// checkGenerated enforces the structural contract the prompt asked for.
func checkGenerated(quiz domain.Quiz, spec domain.QuizSpec) error {
	if len(quiz.Questions) != spec.NumQuestions {
		return fmt.Errorf("expected %d questions, got %d", spec.NumQuestions, len(quiz.Questions))
	}
	if quiz.TotalQuestions != len(quiz.Questions) {
		return fmt.Errorf("total_questions %d does not match question count %d", quiz.TotalQuestions, len(quiz.Questions))
	}
	for i, q := range quiz.Questions {
		if len(q.Options) != 4 {
			return fmt.Errorf("question %d must have exactly 4 options", i+1)
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer > 3 {
			return fmt.Errorf("question %d correct_answer must be between 0 and 3", i+1)
		}
	}
	return nil
}
