package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	searchToolName    = "search"
	searchDescription = "Search the indexed documents using semantic search. Returns the closest chunks for the query text, with source references and distances."
)

// SearchInput represents the input arguments for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query text to find relevant chunks"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of results to return (default: 5)"`
}

// SearchResult represents a single search result.
type SearchResult struct {
	ID        string  `json:"id"`
	SourceRef string  `json:"source_ref"`
	Distance  float32 `json:"distance"`
	Text      string  `json:"text"`
}

// SearchOutput represents the output of the search tool.
type SearchOutput struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// handleSearch processes a search request.
func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	logger := s.config.Logger

	// Default topK if not specified
	topK := input.TopK
	if topK <= 0 {
		topK = 5
	}

	logger.Debug("MCP search request",
		"query", input.Query,
		"topK", topK,
	)

	result, err := s.config.Retriever.Retrieve(ctx, input.Query, topK)
	if err != nil {
		logger.Error("failed to retrieve", "error", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to search index: %v", err)},
			},
		}, SearchOutput{}, nil
	}

	searchResults := make([]SearchResult, len(result.Matches))
	for i, match := range result.Matches {
		searchResults[i] = SearchResult{
			ID:        match.ID,
			SourceRef: match.SourceRef,
			Distance:  match.Distance,
			Text:      match.Text,
		}
	}

	output := SearchOutput{
		Query:   result.Query,
		Results: searchResults,
		Count:   len(searchResults),
	}

	// Serialize the structured output as JSON for the text field
	// Per MCP spec: tools returning structured content should also return
	// serialized JSON in a TextContent block for backwards compatibility
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal search output", "error", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize results: %v", err)},
			},
		}, SearchOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
