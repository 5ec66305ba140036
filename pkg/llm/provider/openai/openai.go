// Package openai implements llm.Completer on the OpenAI chat completions
// API via the official Go SDK.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/parchmentlabs/lectern/pkg/llm"
)

// Completer talks to the OpenAI chat completions endpoint.
type Completer struct {
	client openaisdk.Client
}

// Config holds configuration for the OpenAI completer.
type Config struct {
	// APIKey authenticates against the API. Required.
	APIKey string

	// BaseURL overrides the API base URL, for OpenAI-compatible servers.
	// Empty means the public OpenAI endpoint.
	BaseURL string
}

// NewCompleter creates a completer against the OpenAI API.
func NewCompleter(cfg Config) (*Completer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai completer requires an API key")
	}

	// Retry policy lives with the orchestrator, not the transport.
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Completer{
		client: openaisdk.NewClient(opts...),
	}, nil
}

// Complete sends the request and returns the assistant's reply text.
func (c *Completer) Complete(ctx context.Context, req llm.ChatRequest) (string, error) {
	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case llm.RoleSystem:
			messages = append(messages, openaisdk.SystemMessage(msg.Content))
		case llm.RoleAssistant:
			messages = append(messages, openaisdk.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openaisdk.UserMessage(msg.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model:       req.Model,
		Messages:    messages,
		Temperature: openaisdk.Float(req.Temperature),
	})
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", llm.ErrUpstream)
	}

	return resp.Choices[0].Message.Content, nil
}

// classifyError maps SDK errors onto the pipeline's error taxonomy.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", llm.ErrTimeout, err)
	}

	var apiErr *openaisdk.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", llm.ErrRateLimited, err)
		case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: %v", llm.ErrAuth, err)
		case apiErr.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %v", llm.ErrUpstream, err)
		}
	}

	return fmt.Errorf("%w: %v", llm.ErrUpstream, err)
}

// Close releases resources held by the completer.
func (c *Completer) Close() error {
	return nil
}

var _ llm.Completer = (*Completer)(nil)
