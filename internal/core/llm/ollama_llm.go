package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/markdave123-py/Cluster/internal/core"
)

// OllamaLLM talks to a local Ollama server.
type OllamaLLM struct {
	model llms.Model
}

func NewOllamaLLM(serverURL, modelName string) (*OllamaLLM, error) {
	if modelName == "" {
		modelName = "llama3.2"
	}
	opts := []ollama.Option{ollama.WithModel(modelName)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}
	m, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("ollama client: %w", err)
	}
	return &OllamaLLM{model: m}, nil
}

func (o *OllamaLLM) Close() error { return nil }

func (o *OllamaLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	msgs := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}
	resp, err := o.model.GenerateContent(ctx, msgs, llms.WithTemperature(Temperature))
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}

var _ core.LLMProvider = (*OllamaLLM)(nil)
