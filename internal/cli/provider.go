package cli

import (
	"fmt"

	"github.com/dgallion1/timeliner/internal/config"
	"github.com/dgallion1/timeliner/internal/llm"
)

// newGenerator builds the model client selected by the configuration.
func newGenerator(cfg config.Config) (llm.Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case "openai":
		return llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	case "anthropic":
		return llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel), nil
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}
