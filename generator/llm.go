package generator

import "context"

// Prompt is a single chat completion request
type Prompt struct {
	System      string
	User        string
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// LLMClient abstracts the chat completion backend
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings configures an OpenAI-compatible backend
type LLMSettings struct {
	APIKey  string
	BaseURL string
	Model   string
}
