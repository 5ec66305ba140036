// Package vector provides interfaces and implementations for vector storage.
package vector

import "context"

// Document represents a stored chunk with its embedding and metadata.
type Document struct {
	// ID is a unique identifier for the document (typically "source#ordinal").
	ID string

	// Text is the chunk text that was embedded.
	Text string

	// SourceRef identifies where the chunk came from (file path, URL, document title).
	SourceRef string

	// Embedding is the vector representation of the document content.
	Embedding []float32
}

// QueryResult represents a search result with its distance from the query.
type QueryResult struct {
	Document

	// Distance is the distance between the query embedding and this
	// document's embedding. Smaller means closer.
	Distance float32
}

// VectorDriver handles storage and retrieval of vector embeddings.
type VectorDriver interface {
	// Add stores documents with their embeddings.
	// If a document with the same ID already exists, implementers should update
	// the document.
	Add(ctx context.Context, docs []Document) error

	// Query finds the topK nearest documents to the given embedding,
	// ordered by ascending distance.
	Query(ctx context.Context, embedding []float32, topK int) ([]QueryResult, error)

	// Get retrieves documents by their IDs.
	Get(ctx context.Context, ids []string) ([]Document, error)

	// Delete removes documents by their IDs.
	Delete(ctx context.Context, ids []string) error

	// Count reports the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Close releases any resources held by the driver.
	Close() error
}
