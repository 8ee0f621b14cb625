package ports

import "context"

// LLMClient interface for reasoning-engine providers. One call is one
// request/response exchange; there is no streaming contract.
type LLMClient interface {
	ChatCompletion(ctx context.Context, model string, prompt string, maxTokens int) (string, error)
}
