// Package retrieve embeds user queries and performs nearest-neighbor
// lookups against a vector store. It is the read-only front half of the
// answer pipeline; it never mutates the index.
package retrieve

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/parchmentlabs/lectern/pkg/chunk"
	"github.com/parchmentlabs/lectern/pkg/embeddings"
	"github.com/parchmentlabs/lectern/pkg/vector"
)

// Match pairs a retrieved chunk with its distance from the query.
type Match struct {
	chunk.Chunk

	// Distance to the query embedding. Smaller means closer.
	Distance float32 `json:"distance"`
}

// Result is an ordered set of matches for one query, closest first.
// It is produced fresh per query and never persisted.
type Result struct {
	Query   string  `json:"query"`
	Matches []Match `json:"matches"`
}

// Closest returns the nearest match, if any.
func (r *Result) Closest() (Match, bool) {
	if r == nil || len(r.Matches) == 0 {
		return Match{}, false
	}
	return r.Matches[0], true
}

// Retriever performs semantic lookups over an indexed corpus.
type Retriever struct {
	embedder embeddings.Embedder
	driver   vector.VectorDriver
	logger   *slog.Logger
}

// NewRetriever creates a retriever over the given embedder and vector store.
// Both collaborators are required.
func NewRetriever(embedder embeddings.Embedder, driver vector.VectorDriver, logger *slog.Logger) (*Retriever, error) {
	if embedder == nil {
		return nil, fmt.Errorf("retriever requires an embedder")
	}
	if driver == nil {
		return nil, fmt.Errorf("retriever requires a vector driver")
	}

	return &Retriever{
		embedder: embedder,
		driver:   driver,
		logger:   logger,
	}, nil
}

// Retrieve embeds the query and returns up to k matches ordered by
// non-decreasing distance. If fewer than k chunks exist in the index it
// returns all of them. The query must be non-empty after trimming and k
// must be at least 1.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	if k < 1 {
		return nil, fmt.Errorf("k must be at least 1, got %d", k)
	}

	queryEmbedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := r.driver.Query(ctx, queryEmbedding, k)
	if err != nil {
		return nil, fmt.Errorf("querying vector store: %w", err)
	}

	matches := make([]Match, 0, len(results))
	for _, res := range results {
		matches = append(matches, Match{
			Chunk: chunk.Chunk{
				ID:        res.ID,
				Text:      res.Text,
				SourceRef: res.SourceRef,
			},
			Distance: res.Distance,
		})
	}

	// Drivers return ascending distance already; sort anyway so the
	// closest-first contract does not depend on driver behavior.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	r.logger.Debug("retrieved matches",
		"query", query,
		"k", k,
		"matches", len(matches),
	)

	return &Result{
		Query:   query,
		Matches: matches,
	}, nil
}
