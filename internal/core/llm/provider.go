// Package llm holds the language model backends. One is chosen at startup.
package llm

import (
	"context"
	"fmt"

	"github.com/markdave123-py/Cluster/internal/config"
	"github.com/markdave123-py/Cluster/internal/core"
)

// Temperature is the sampling temperature every backend uses.
const Temperature = 0.5

// Client is an LLMProvider that holds connections to release on shutdown.
type Client interface {
	core.LLMProvider
	Close() error
}

// NewFromConfig builds the backend named by cfg.LLMBackend.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Client, error) {
	var (
		c   Client
		err error
	)
	switch cfg.LLMBackend {
	case config.LLMOllama:
		c, err = NewOllamaLLM(cfg.OllamaURL, cfg.OllamaModel)
	case config.LLMGemini:
		c, err = NewGeminiLLM(ctx, cfg.AIAPIKey, cfg.GenModel)
	case config.LLMOpenAI:
		c, err = NewOpenAILLM(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	default:
		return nil, fmt.Errorf("unknown llm backend %q", cfg.LLMBackend)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
