// Package memory provides an in-process vector driver backed by a map.
// It is useful for tests and small corpora that fit comfortably in memory.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/parchmentlabs/lectern/pkg/vector"
)

// MemoryDriver implements vector.VectorDriver with an in-memory map and
// exact cosine-distance search.
type MemoryDriver struct {
	mu     sync.RWMutex
	docs   map[string]vector.Document
	dims   int
	logger *slog.Logger
}

// NewMemoryDriver creates an empty in-memory vector driver.
func NewMemoryDriver(logger *slog.Logger) *MemoryDriver {
	return &MemoryDriver{
		docs:   make(map[string]vector.Document),
		logger: logger,
	}
}

// Add stores documents with their embeddings. Documents with an existing
// ID are replaced. All embeddings must share the same dimensionality.
func (d *MemoryDriver) Add(ctx context.Context, docs []vector.Document) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, doc := range docs {
		if len(doc.Embedding) == 0 {
			return fmt.Errorf("%w: document %s has no embedding", vector.ErrDimensionMismatch, doc.ID)
		}
		if d.dims == 0 {
			d.dims = len(doc.Embedding)
		}
		if len(doc.Embedding) != d.dims {
			return fmt.Errorf("%w: document %s has %d dimensions, store has %d",
				vector.ErrDimensionMismatch, doc.ID, len(doc.Embedding), d.dims)
		}

		stored := doc
		stored.Embedding = append([]float32(nil), doc.Embedding...)
		d.docs[doc.ID] = stored
	}

	d.logger.Debug("added documents to memory store", "count", len(docs))

	return nil
}

// Query finds the topK nearest documents by cosine distance.
func (d *MemoryDriver) Query(ctx context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 10
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(d.docs) == 0 {
		return nil, nil
	}

	if len(embedding) != d.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, store has %d",
			vector.ErrDimensionMismatch, len(embedding), d.dims)
	}

	results := make([]vector.QueryResult, 0, len(d.docs))
	for _, doc := range d.docs {
		results = append(results, vector.QueryResult{
			Document: doc,
			Distance: cosineDistance(embedding, doc.Embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if len(results) > topK {
		results = results[:topK]
	}

	// Defensive copies so callers cannot mutate stored embeddings.
	for i := range results {
		results[i].Embedding = append([]float32(nil), results[i].Embedding...)
	}

	return results, nil
}

// Get retrieves documents by their IDs. Unknown IDs are skipped.
func (d *MemoryDriver) Get(ctx context.Context, ids []string) ([]vector.Document, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	docs := make([]vector.Document, 0, len(ids))
	for _, id := range ids {
		doc, ok := d.docs[id]
		if !ok {
			continue
		}
		doc.Embedding = append([]float32(nil), doc.Embedding...)
		docs = append(docs, doc)
	}

	return docs, nil
}

// Delete removes documents by their IDs.
func (d *MemoryDriver) Delete(ctx context.Context, ids []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, id := range ids {
		delete(d.docs, id)
	}

	return nil
}

// Count reports the number of stored documents.
func (d *MemoryDriver) Count(ctx context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.docs), nil
}

// Close releases resources held by the driver.
func (d *MemoryDriver) Close() error {
	return nil
}

// cosineDistance computes 1 - cosine similarity. Zero-magnitude vectors
// are treated as maximally distant.
func cosineDistance(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 1
	}

	return float32(1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)))
}

var _ vector.VectorDriver = (*MemoryDriver)(nil)
