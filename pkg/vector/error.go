package vector

import "errors"

var (
	// ErrNotFound is returned when a document is not found in the vector store.
	ErrNotFound = errors.New("document not found")

	// ErrNotLoaded is returned when a query runs against an empty index.
	ErrNotLoaded = errors.New("no documents indexed")

	// ErrConnection is returned when the vector store connection fails.
	ErrConnection = errors.New("vector store connection failed")

	// ErrDimensionMismatch is returned when an embedding's dimensions do not
	// match the dimensions the store was configured with.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
