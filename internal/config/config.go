package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port string `envconfig:"PORT" default:"8087"`

	// Auth; empty disables API authentication.
	APIKey string `envconfig:"API_KEY"`

	// Model provider: "openai" or "anthropic".
	Provider        string `envconfig:"LLM_PROVIDER" default:"openai"`
	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel     string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `envconfig:"ANTHROPIC_MODEL" default:"claude-sonnet-4-5-20250929"`

	// Worker pool
	WorkerCount          int `envconfig:"WORKER_COUNT" default:"2"`
	MaxQueueSize         int `envconfig:"MAX_QUEUE_SIZE" default:"100"`
	MaxConcurrentExtract int `envconfig:"MAX_CONCURRENT_EXTRACT" default:"4"`

	// Chunking
	ChunkSize    int `envconfig:"CHUNK_SIZE" default:"1000"`
	ChunkOverlap int `envconfig:"CHUNK_OVERLAP" default:"200"`

	// MaxChunks truncates every document to its first N chunks when > 0.
	// Meant for fast-iteration and test runs.
	MaxChunks int `envconfig:"MAX_CHUNKS" default:"0"`

	// Upload limits
	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"52428800"` // 50MB

	// Job state
	JobTTL time.Duration `envconfig:"JOB_TTL" default:"1h"`

	// Storage
	DBPath string `envconfig:"DB_PATH" default:"timeliner.db"`

	// Rendering
	DefaultWidth int `envconfig:"DEFAULT_WIDTH" default:"3000"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("TIMELINER", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the selected provider has credentials.
func (c Config) Validate() error {
	switch c.Provider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q (want openai or anthropic)", c.Provider)
	}
	return nil
}
