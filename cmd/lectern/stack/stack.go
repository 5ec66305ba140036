// Package stack wires configured providers into the runtime components
// shared by the lectern commands (chat, serve, index, search).
package stack

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/parchmentlabs/lectern/pkg/chat"
	"github.com/parchmentlabs/lectern/pkg/config"
	"github.com/parchmentlabs/lectern/pkg/dotdir"
	"github.com/parchmentlabs/lectern/pkg/embeddings"
	embeddingutils "github.com/parchmentlabs/lectern/pkg/embeddings/utils"
	"github.com/parchmentlabs/lectern/pkg/eventstream"
	eventstreamutils "github.com/parchmentlabs/lectern/pkg/eventstream/utils"
	"github.com/parchmentlabs/lectern/pkg/gate"
	"github.com/parchmentlabs/lectern/pkg/llm"
	llmutils "github.com/parchmentlabs/lectern/pkg/llm/utils"
	"github.com/parchmentlabs/lectern/pkg/retrieve"
	"github.com/parchmentlabs/lectern/pkg/vector"
	vectorutils "github.com/parchmentlabs/lectern/pkg/vector/utils"
)

// Options selects which providers to build and how.
type Options struct {
	// Config is the effective configuration (flags > env > file > defaults).
	Config *config.Config

	// ConfigDir overrides .lectern/ directory resolution for the default
	// index artifact path.
	ConfigDir string

	// RequireExistingIndex makes the sqlite vector driver fail with
	// vector.ErrNotLoaded when the index artifact does not exist yet.
	// Serving and querying commands set this; "lectern index" does not.
	RequireExistingIndex bool

	Logger *slog.Logger
}

// Retrieval holds the read path over the index.
type Retrieval struct {
	Embedder  embeddings.Embedder
	Driver    vector.VectorDriver
	Retriever *retrieve.Retriever
	Gate      *gate.Gate
}

// Close releases the retrieval providers.
func (r *Retrieval) Close() {
	if r.Embedder != nil {
		_ = r.Embedder.Close()
	}
	if r.Driver != nil {
		_ = r.Driver.Close()
	}
}

// Chat extends Retrieval with the completion and event providers needed
// to run full chat cycles.
type Chat struct {
	Retrieval

	Completer llm.Completer
	Publisher eventstream.Publisher
}

// Close releases all chat providers.
func (c *Chat) Close() {
	if c.Completer != nil {
		_ = c.Completer.Close()
	}
	if c.Publisher != nil {
		_ = c.Publisher.Close()
	}
	c.Retrieval.Close()
}

// NewSession builds a chat session on top of this stack. An empty ID
// lets the session generate one.
func (c *Chat) NewSession(id string, cfg *config.Config, logger *slog.Logger) (*chat.Session, error) {
	return chat.NewSession(chat.Config{
		SessionID:   id,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		TopK:        cfg.Chat.TopK,
		Persona:     cfg.Chat.Persona,
		Refusal:     cfg.Chat.Refusal,
		Retriever:   c.Retriever,
		Gate:        c.Gate,
		Completer:   c.Completer,
		Publisher:   c.Publisher,
		Logger:      logger,
	})
}

// NewRetrieval builds the embedder, vector driver, retriever, and gate
// from configuration.
func NewRetrieval(o Options) (*Retrieval, error) {
	cfg := o.Config

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	dbPath, err := indexPath(cfg, o.ConfigDir)
	if err != nil {
		_ = embedder.Close()
		return nil, err
	}

	driver, err := vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
		ProviderType:    cfg.VectorStore.Provider,
		TargetURL:       cfg.VectorStore.Target,
		DBPath:          dbPath,
		Collection:      cfg.VectorStore.Collection,
		Dimensions:      cfg.Embedding.Dimensions,
		RequireExisting: o.RequireExistingIndex,
		Logger:          o.Logger,
	})
	if err != nil {
		_ = embedder.Close()
		return nil, fmt.Errorf("creating vector driver: %w", err)
	}

	retriever, err := retrieve.NewRetriever(embedder, driver, o.Logger)
	if err != nil {
		_ = embedder.Close()
		_ = driver.Close()
		return nil, err
	}

	g, err := gate.New(gate.Metric(cfg.Gate.Metric), cfg.Gate.Threshold)
	if err != nil {
		_ = embedder.Close()
		_ = driver.Close()
		return nil, err
	}

	return &Retrieval{
		Embedder:  embedder,
		Driver:    driver,
		Retriever: retriever,
		Gate:      g,
	}, nil
}

// NewChat builds the full chat stack from configuration.
func NewChat(o Options) (*Chat, error) {
	retrieval, err := NewRetrieval(o)
	if err != nil {
		return nil, err
	}

	completer, err := llmutils.NewCompleter(&llmutils.NewCompleterOpts{
		ProviderType: o.Config.LLM.Provider,
		TargetURL:    o.Config.LLM.Target,
	})
	if err != nil {
		retrieval.Close()
		return nil, fmt.Errorf("creating completer: %w", err)
	}

	publisher, err := eventstreamutils.NewPublisher(&eventstreamutils.NewPublisherOpts{
		ProviderType: o.Config.Events.Provider,
		Brokers:      splitBrokers(o.Config.Events.Brokers),
		Topic:        o.Config.Events.Topic,
		Logger:       o.Logger,
	})
	if err != nil {
		_ = completer.Close()
		retrieval.Close()
		return nil, fmt.Errorf("creating event publisher: %w", err)
	}

	return &Chat{
		Retrieval: *retrieval,
		Completer: completer,
		Publisher: publisher,
	}, nil
}

// indexPath resolves the sqlite index artifact path. An explicit
// vector_store.target wins; otherwise the index lives in the resolved
// .lectern/ directory.
func indexPath(cfg *config.Config, configDir string) (string, error) {
	if cfg.VectorStore.Provider != "sqlite" {
		return "", nil
	}
	if cfg.VectorStore.Target != "" {
		return cfg.VectorStore.Target, nil
	}

	path, err := dotdir.NewManager().IndexPath(configDir)
	if err != nil {
		return "", fmt.Errorf("resolving index path: %w", err)
	}
	return path, nil
}

func splitBrokers(brokers string) []string {
	if brokers == "" {
		return nil
	}

	parts := strings.Split(brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
