// Package llm holds the provider-neutral request and response types shared by
// prompt builders and the Gemini/OpenAI clients.
package llm

import (
	"context"
)

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Request struct {
	Messages    []Message
	Temperature float32
	// JSON asks the provider for a JSON-only answer.
	JSON bool
}

type Response struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Client interface {
	Complete(ctx context.Context, request Request) (Response, error)
	Model() string
}

func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}
