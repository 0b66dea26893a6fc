package llm

import (
	"context"
	"fmt"
)

// Chat roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries one chat completion call. Zero MaxTokens or
// Temperature leave the client's defaults in place.
type ChatRequest struct {
	Messages    []Message
	MaxTokens   int
	Temperature *float64
}

// LLM is a chat-completion backend.
type LLM interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
	GetModel() string
}

// RemoteAnalysisError is returned for a non-success HTTP status from the provider.
type RemoteAnalysisError struct {
	StatusCode int
	Body       string
}

func (e *RemoteAnalysisError) Error() string {
	return fmt.Sprintf("OpenAI API error (status %d): %s", e.StatusCode, e.Body)
}
