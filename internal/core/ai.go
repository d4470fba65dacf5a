package core

import "context"

// LLMProvider completes a two-message exchange: a system prompt and a user message.
// Implementations sample at a fixed temperature.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}
