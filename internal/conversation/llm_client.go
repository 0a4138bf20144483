package conversation

import (
	"context"
	"time"
)

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is a single conversation turn. Messages are immutable once
// appended to a user's history.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

type LLMRequest struct {
	Model       string
	System      []string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

type LLMResponse struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

type LLMClient interface {
	Complete(ctx context.Context, req LLMRequest) (LLMResponse, error)
}

type defaultModelClient struct {
	inner LLMClient
	model string
}

// WithDefaultModel wraps client so requests that leave Model empty use the
// configured model id.
func WithDefaultModel(client LLMClient, model string) LLMClient {
	if client == nil || model == "" {
		return client
	}
	return &defaultModelClient{inner: client, model: model}
}

func (c *defaultModelClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	if req.Model == "" {
		req.Model = c.model
	}
	return c.inner.Complete(ctx, req)
}
