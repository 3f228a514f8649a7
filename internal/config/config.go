package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// LLM provider (any OpenAI-compatible endpoint)
	LLMAPIKey           string `envconfig:"LLM_API_KEY"`
	LLMBaseURL          string `envconfig:"LLM_BASE_URL"`
	ChatModel           string `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`
	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-ada-002"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"1536"`

	// Pipeline tuning
	BatchSize           int     `envconfig:"BATCH_SIZE" default:"5"`
	ConfidenceThreshold float64 `envconfig:"CONFIDENCE_THRESHOLD" default:"0.7"`
	Concurrency         int     `envconfig:"CONCURRENCY" default:"4"`
	RetrievalLimit      int     `envconfig:"RETRIEVAL_LIMIT" default:"5"`

	// Optional static API key protecting the HTTP surface
	APIKey string `envconfig:"API_KEY"`

	// Observability
	SentryDSN        string  `envconfig:"SENTRY_DSN"`
	Environment      string  `envconfig:"ENVIRONMENT" default:"development"`
	TracesSampleRate float64 `envconfig:"TRACES_SAMPLE_RATE" default:"1.0"`

	// Async job worker
	WorkerPollInterval int `envconfig:"WORKER_POLL_INTERVAL" default:"3"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("QUESTRA", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasLLM() bool {
	return c.LLMAPIKey != ""
}

func (c *Config) HasAPIKey() bool {
	return c.APIKey != ""
}
