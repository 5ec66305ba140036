// Package ollama implements llm.Completer against Ollama's chat API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/parchmentlabs/lectern/pkg/llm"
)

const (
	// DefaultBaseURL is the default Ollama API URL.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultTimeout bounds one completion. LLM responses can be slow.
	DefaultTimeout = 5 * time.Minute
)

// Completer talks to Ollama's /api/chat endpoint.
type Completer struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds configuration for the Ollama completer.
type Config struct {
	// BaseURL is the Ollama API URL (e.g., "http://localhost:11434").
	// Defaults to DefaultBaseURL if empty.
	BaseURL string

	// Timeout bounds a single completion request.
	// Defaults to DefaultTimeout if zero.
	Timeout time.Duration
}

// NewCompleter creates a completer against an Ollama server.
func NewCompleter(cfg Config) (*Completer, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Completer{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// chatRequest is the request body for Ollama's chat API.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
}

// chatResponse is the non-streaming response from Ollama's chat API.
type chatResponse struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// Complete sends the request and returns the assistant's reply text.
func (c *Completer) Complete(ctx context.Context, req llm.ChatRequest) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    req.Model,
		Messages: req.Messages,
		Stream:   false,
		Options:  chatOptions{Temperature: req.Temperature},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling chat request: %w", err)
	}

	url := c.baseURL + "/api/chat"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", llm.ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", llm.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return "", fmt.Errorf("%w: status %d: %s", llm.ErrRateLimited, resp.StatusCode, string(respBody))
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return "", fmt.Errorf("%w: status %d: %s", llm.ErrAuth, resp.StatusCode, string(respBody))
		default:
			return "", fmt.Errorf("%w: status %d: %s", llm.ErrUpstream, resp.StatusCode, string(respBody))
		}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", llm.ErrUpstream, err)
	}

	return chatResp.Message.Content, nil
}

// Close releases resources held by the completer.
func (c *Completer) Close() error {
	return nil
}

var _ llm.Completer = (*Completer)(nil)
