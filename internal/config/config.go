package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Summarization output shape. These are display constants, not tunables.
const (
	SummaryLines      = 3
	MaxLineLength     = 120
	MinSentenceLength = 20

	KeyPointsCount    = 3
	RelatedLinksCount = 3

	MaxContentLength      = 5000
	MaxCommentsForSummary = 10
	MaxCommentLength      = 500
)

// Config holds everything read from the process environment.
// CLI flags overlay these values in cmd.
type Config struct {
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"HNSUM_OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	OpenAIBaseURL string `env:"HNSUM_OPENAI_URL"`

	OllamaURL   string `env:"HNSUM_OLLAMA_URL"   envDefault:"http://localhost:11434"`
	OllamaModel string `env:"HNSUM_OLLAMA_MODEL" envDefault:"mistral:7b"`

	Timeout           time.Duration `env:"HNSUM_TIMEOUT"             envDefault:"30s"`
	MaxTokens         int           `env:"HNSUM_MAX_TOKENS"          envDefault:"200"`
	EnhancedMaxTokens int           `env:"HNSUM_ENHANCED_MAX_TOKENS" envDefault:"1000"`
	Temperature       float64       `env:"HNSUM_TEMPERATURE"         envDefault:"0.7"`

	AllowFallback bool          `env:"HNSUM_ALLOW_FALLBACK" envDefault:"true"`
	Delay         time.Duration `env:"HNSUM_DELAY"          envDefault:"1s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}
