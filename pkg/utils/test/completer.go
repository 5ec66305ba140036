package testutils

import (
	"context"

	"github.com/parchmentlabs/lectern/pkg/llm"
)

// MockCompleter is a test completer with a scripted reply.
type MockCompleter struct {
	// Reply is returned for every completion when Err is nil.
	Reply string

	// Err causes Complete to fail.
	Err error

	// Requests records every request received, in order.
	Requests []llm.ChatRequest
}

func NewMockCompleter(reply string) *MockCompleter {
	return &MockCompleter{Reply: reply}
}

func (m *MockCompleter) Complete(_ context.Context, req llm.ChatRequest) (string, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

func (m *MockCompleter) Close() error {
	return nil
}

var _ llm.Completer = (*MockCompleter)(nil)
