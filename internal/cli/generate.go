package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"quizbot-service/internal/config"
	"quizbot-service/internal/domain"
	"quizbot-service/internal/llm"
	"quizbot-service/internal/quizgen"
)

// NewGenerateCmd builds a one-shot generation command: produce a quiz and
// print it as JSON, without starting the server.
func NewGenerateCmd(configPath *string) *cobra.Command {
	var (
		topic      string
		questions  int
		difficulty string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a single quiz and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(strings.TrimSpace(topic)) < 3 {
				return fmt.Errorf("topic must be at least 3 characters long")
			}
			if questions < 1 || questions > 20 {
				return fmt.Errorf("questions must be between 1 and 20")
			}
			tier := domain.Difficulty(difficulty)
			if !tier.Valid() {
				return fmt.Errorf("difficulty must be easy, medium or hard")
			}

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if err := cfg.LLM.Validate(); err != nil {
				return err
			}
			provider, err := llm.NewProvider(cmd.Context(), cfg.LLM)
			if err != nil {
				return err
			}

			generator := quizgen.New(provider, generatorConfig(cfg))
			quiz, err := generator.Generate(cmd.Context(), domain.QuizSpec{
				Topic:        strings.TrimSpace(topic),
				NumQuestions: questions,
				Difficulty:   tier,
			})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(quiz, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "quiz topic")
	cmd.Flags().IntVar(&questions, "questions", 5, "number of questions (1-20)")
	cmd.Flags().StringVar(&difficulty, "difficulty", "medium", "difficulty: easy, medium or hard")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}
