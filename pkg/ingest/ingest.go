// Package ingest reads corpus files, splits them into chunks, and
// builds the vector index those chunks are served from. It runs
// offline; serving processes only ever read the result.
package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/parchmentlabs/lectern/pkg/chunk"
	"github.com/parchmentlabs/lectern/pkg/embeddings"
	"github.com/parchmentlabs/lectern/pkg/vector"
)

// Ingester turns files into chunks using one splitter configuration.
type Ingester struct {
	splitter *chunk.Splitter
	logger   *slog.Logger
}

// NewIngester creates an ingester with the given splitter.
func NewIngester(splitter *chunk.Splitter, logger *slog.Logger) *Ingester {
	return &Ingester{
		splitter: splitter,
		logger:   logger,
	}
}

// IngestFile reads one file and splits it into chunks. The source ref
// is the given path. Markdown and plain text are read as-is; PDFs are
// extracted page by page.
func (i *Ingester) IngestFile(path string) ([]chunk.Chunk, error) {
	var text string

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		text = string(data)
	case ".pdf":
		extracted, err := extractPDF(path)
		if err != nil {
			return nil, fmt.Errorf("extracting %s: %w", path, err)
		}
		text = extracted
	default:
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}

	chunks := i.splitter.Split(text, path)

	i.logger.Debug("ingested file", "path", path, "chunks", len(chunks))

	return chunks, nil
}

// IngestDir walks a directory tree and ingests every supported file.
// Unsupported files are skipped, not errors.
func (i *Ingester) IngestDir(root string) ([]chunk.Chunk, error) {
	var chunks []chunk.Chunk

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".md", ".pdf":
		default:
			return nil
		}

		fileChunks, err := i.IngestFile(path)
		if err != nil {
			return err
		}
		chunks = append(chunks, fileChunks...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	i.logger.Info("ingested directory", "root", root, "chunks", len(chunks))

	return chunks, nil
}

// extractPDF pulls plain text out of every page of a PDF.
func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", pageNum, err)
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	return b.String(), nil
}

// BuildIndex embeds chunks and stores them in the vector driver. It is
// the one write path to the index; everything else reads.
func BuildIndex(ctx context.Context, chunks []chunk.Chunk, embedder embeddings.Embedder, driver vector.VectorDriver, logger *slog.Logger) error {
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks to index")
	}

	docs := make([]vector.Document, 0, len(chunks))
	for _, c := range chunks {
		embedding, err := embedder.Embed(ctx, c.Text)
		if err != nil {
			return fmt.Errorf("embedding chunk %s: %w", c.ID, err)
		}

		docs = append(docs, vector.Document{
			ID:        c.ID,
			Text:      c.Text,
			SourceRef: c.SourceRef,
			Embedding: embedding,
		})
	}

	if err := driver.Add(ctx, docs); err != nil {
		return fmt.Errorf("storing documents: %w", err)
	}

	logger.Info("index built", "documents", len(docs))

	return nil
}
