package generate

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/threadsage/threadsage/internal/config"
	"github.com/threadsage/threadsage/internal/transport/gemini"
	"github.com/threadsage/threadsage/internal/transport/ollama"
	"github.com/threadsage/threadsage/internal/transport/openai"
)

// NewProvider builds the generative client named by cfg.Provider.
func NewProvider(cfg config.LLMConfig, logger *zap.Logger) (Generator, error) {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second

	switch cfg.Provider {
	case "gemini":
		return gemini.NewClient(gemini.Config{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     timeout,
			Logger:      logger,
		}), nil
	case "ollama":
		return ollama.NewClient(ollama.Config{
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     timeout,
			Logger:      logger,
		}), nil
	case "openai":
		return openai.NewClient(openai.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Logger:      logger,
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
