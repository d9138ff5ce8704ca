package llm

import (
	"fmt"
	"os"
)

// Config selects and configures a model provider. A single flat section is
// enough here: the service talks to exactly one provider at a time.
type Config struct {
	// Provider is one of "gemini", "openai", "anthropic", "mock".
	Provider string `yaml:"provider"`

	// APIKey authenticates against the selected provider. When empty the
	// factory probes the standard env vars for the provider's key.
	APIKey string `yaml:"api_key"`

	// Model is a friendly name or a raw model ID. Empty picks the
	// provider default.
	Model string `yaml:"model"`

	// BaseURL overrides the API endpoint for OpenAI-compatible gateways.
	BaseURL string `yaml:"base_url"`
}

// envKeys maps provider names to their conventional API key variables.
var envKeys = map[string]string{
	"gemini":    "GEMINI_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// withEnvKey fills APIKey from the provider's standard env var when unset.
func (c Config) withEnvKey() Config {
	if c.APIKey != "" {
		return c
	}
	if v, ok := envKeys[c.Provider]; ok {
		c.APIKey = os.Getenv(v)
	}
	return c
}

// Validate checks that the selected provider has its API key available.
func (c Config) Validate() error {
	c = c.withEnvKey()
	switch c.Provider {
	case "gemini", "openai", "anthropic":
		if c.APIKey == "" {
			return fmt.Errorf("%s API key is required (set %s or llm.api_key)", c.Provider, envKeys[c.Provider])
		}
	case "mock":
		// No key needed.
	default:
		return fmt.Errorf("unknown model provider: %q", c.Provider)
	}
	return nil
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names pass through so raw model IDs keep working.
func resolveModel(name, fallback string, models map[string]string) string {
	if name == "" {
		name = fallback
	}
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
