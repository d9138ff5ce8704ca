package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"quizbot-service/internal/llm"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	LLM       llm.Config `yaml:"llm"`
	Generator struct {
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
		Timeout     string  `yaml:"timeout"`
	} `yaml:"generator"`
	Cache struct {
		TTL string `yaml:"ttl"`
	} `yaml:"cache"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Session struct {
		MaxAgeHours   int    `yaml:"max_age_hours"`
		SweepInterval string `yaml:"sweep_interval"`
	} `yaml:"session"`
}

// Default returns the configuration used when no file is present: Gemini
// provider (key from env), in-memory cache, 24h session expiry.
func Default() Config {
	cfg := Config{}
	cfg.LLM.Provider = "gemini"
	cfg.Session.MaxAgeHours = 24
	return cfg
}

// Load reads YAML config from path. A missing file is not an error; the
// defaults apply and API keys come from the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty or
// malformed.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
