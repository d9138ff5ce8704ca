package llm

import (
	"context"
	"fmt"
)

// NewProvider creates a Provider from configuration. There is deliberately
// no retry middleware: a failed generation is handled by the quiz
// generator's fallback, not by re-asking the model.
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiProvider(ctx, cfg)
	case "openai":
		return NewOpenAIProvider(cfg)
	case "anthropic":
		return NewAnthropicProvider(cfg)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown model provider: %q", cfg.Provider)
	}
}
