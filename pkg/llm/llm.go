// Package llm defines the completion client interface the chat pipeline
// talks to, plus the shared request shape providers consume.
package llm

import "context"

// Message roles. These match the wire roles of both supported providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged message in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a fully assembled prompt ready to send to a model.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// Completer produces a completion for an assembled prompt.
type Completer interface {
	// Complete sends the request and returns the assistant's reply text.
	Complete(ctx context.Context, req ChatRequest) (string, error)

	// Close releases resources held by the completer.
	Close() error
}
