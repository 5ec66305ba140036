package chunk

import (
	"fmt"
	"strings"
)

// Splitter cuts document text into overlapping word windows.
type Splitter struct {
	size    int
	overlap int
}

// NewSplitter creates a splitter producing chunks of size words with
// overlap words shared between consecutive chunks.
func NewSplitter(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("overlap must be in [0, size), got %d for size %d", overlap, size)
	}
	return &Splitter{size: size, overlap: overlap}, nil
}

// Split cuts text into ordered chunks attributed to sourceRef. Whitespace
// runs are collapsed; empty or whitespace-only text yields no chunks.
func (s *Splitter) Split(text, sourceRef string) []Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	stride := s.size - s.overlap

	var chunks []Chunk
	for start := 0; start < len(words); start += stride {
		end := start + s.size
		if end > len(words) {
			end = len(words)
		}

		chunks = append(chunks, NewChunk(sourceRef, len(chunks), strings.Join(words[start:end], " ")))

		if end == len(words) {
			break
		}
	}

	return chunks
}
