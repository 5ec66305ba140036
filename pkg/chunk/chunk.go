// Package chunk defines the unit of retrievable content and the splitter
// that produces it from raw document text.
package chunk

import "fmt"

// Chunk is a unit of retrievable content. Immutable once stored in a vector
// store; chunks only go away when the index is rebuilt.
type Chunk struct {
	// ID uniquely identifies the chunk within one index
	// (sourceRef plus ordinal).
	ID string `json:"id"`

	// Text is the chunk content.
	Text string `json:"text"`

	// SourceRef names where the chunk came from (file path, URL).
	SourceRef string `json:"source_ref"`
}

// NewChunk builds a chunk with the canonical "<sourceRef>#<ordinal>" ID.
func NewChunk(sourceRef string, ordinal int, text string) Chunk {
	return Chunk{
		ID:        fmt.Sprintf("%s#%d", sourceRef, ordinal),
		Text:      text,
		SourceRef: sourceRef,
	}
}
