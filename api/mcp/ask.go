package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	askToolName    = "ask"
	askDescription = "Ask a question against the indexed documents. Runs a full retrieval-gated chat cycle and returns the grounded answer, or a refusal when no indexed content is close enough."
)

// AskInput represents the input arguments for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed documents"`
}

// AskOutput represents the output of the ask tool.
type AskOutput struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

// handleAsk runs one chat cycle on a fresh session.
func (s *Server) handleAsk(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP ask request", "question", input.Question)

	session, err := s.config.NewSession()
	if err != nil {
		logger.Error("failed to create session", "error", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to create session: %v", err)},
			},
		}, AskOutput{}, nil
	}

	turn, err := session.Respond(ctx, input.Question)
	if err != nil {
		logger.Error("chat cycle failed", "error", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to answer: %v", err)},
			},
		}, AskOutput{}, nil
	}

	output := AskOutput{
		SessionID: session.ID(),
		Answer:    turn.Content,
	}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal ask output", "error", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize answer: %v", err)},
			},
		}, AskOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
