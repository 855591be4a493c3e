package llm

import (
	"context"
	"errors"
)

// Message is a single chat-completion message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest captures one chat-completion invocation.
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// Client abstracts chat-completion providers.
type Client interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm client not configured")

// PlaceholderClient is a stub implementation used when no provider is configured.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	_ = ctx
	_ = req
	return "", ErrNotConfigured
}
