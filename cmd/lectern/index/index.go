// Package indexcmder provides the index command for chunking, embedding,
// and indexing local documents.
package indexcmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/parchmentlabs/lectern/cmd/lectern/stack"
	"github.com/parchmentlabs/lectern/pkg/chunk"
	"github.com/parchmentlabs/lectern/pkg/cliui"
	"github.com/parchmentlabs/lectern/pkg/config"
	"github.com/parchmentlabs/lectern/pkg/ingest"
	"github.com/parchmentlabs/lectern/pkg/logger"
)

type indexCommander struct {
	paths     []string
	watch     bool
	configDir string
	debug     bool

	chunkSize    int
	overlap      int
	embedProv    string
	embedTarget  string
	embedModel   string
	embedDims    uint
	vectorProv   string
	vectorTarget string
	collection   string

	cfg *config.Config
}

const indexLongDesc string = `Build the document index from local files.

Reads the given files or directories, splits each document into overlapping
word chunks, embeds every chunk, and writes the result to the configured
vector store. Supported file types: .txt, .md, .pdf. Unsupported files in
a directory are skipped.

Indexing is offline: nothing answers questions until the index exists.
Re-running overwrites chunks that share an ID (same source and position).

Use --watch to keep running, rebuilding affected files as they change.

Examples:
  lectern index ./docs
  lectern index notes.md manual.pdf
  lectern index ./docs --chunk-size 200 --overlap 40
  lectern index ./docs --watch`

const indexShortDesc string = "Chunk, embed, and index documents"

func NewIndexCmd() *cobra.Command {
	cmder := &indexCommander{}

	cmd := &cobra.Command{
		Use:   "index <path>...",
		Short: indexShortDesc,
		Long:  indexLongDesc,
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, indexFlagKeys)
			cmder.cfg = config.ConfigFromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.paths = args

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddIntFlag(cmd, config.Flags, config.FlagChunkSize, &cmder.chunkSize)
	config.AddIntFlag(cmd, config.Flags, config.FlagOverlap, &cmder.overlap)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingProv, &cmder.embedProv)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingTgt, &cmder.embedTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingModel, &cmder.embedModel)
	config.AddUintFlag(cmd, config.Flags, config.FlagEmbeddingDims, &cmder.embedDims)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorProv, &cmder.vectorProv)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorTgt, &cmder.vectorTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagCollection, &cmder.collection)
	cmd.Flags().BoolVarP(&cmder.watch, "watch", "w", false, "Rebuild affected files as they change")

	return cmd
}

var indexFlagKeys = []string{
	config.FlagChunkSize,
	config.FlagOverlap,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagVectorProv,
	config.FlagVectorTgt,
	config.FlagCollection,
}

func (c *indexCommander) run() error {
	log := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))

	retrieval, err := stack.NewRetrieval(stack.Options{
		Config:    c.cfg,
		ConfigDir: c.configDir,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	defer retrieval.Close()

	splitter, err := chunk.NewSplitter(c.cfg.Index.ChunkSize, c.cfg.Index.Overlap)
	if err != nil {
		return err
	}
	ingester := ingest.NewIngester(splitter, log)

	ctx := context.Background()
	if err := c.buildAll(ctx, ingester, retrieval); err != nil {
		return err
	}

	if c.watch {
		return c.watchAndRebuild(ctx, ingester, retrieval, log)
	}
	return nil
}

// buildAll ingests every configured path and writes the chunks to the
// vector store.
func (c *indexCommander) buildAll(ctx context.Context, ingester *ingest.Ingester, retrieval *stack.Retrieval) error {
	started := time.Now()

	var chunks []chunk.Chunk
	for _, path := range c.paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		var batch []chunk.Chunk
		err = cliui.Step(os.Stdout, fmt.Sprintf("Reading %s", path), func() error {
			if info.IsDir() {
				batch, err = ingester.IngestDir(path)
			} else {
				batch, err = ingester.IngestFile(path)
			}
			return err
		})
		if err != nil {
			return err
		}
		chunks = append(chunks, batch...)
	}

	if len(chunks) == 0 {
		return fmt.Errorf("no indexable content found in %s", strings.Join(c.paths, ", "))
	}

	err := cliui.Step(os.Stdout, fmt.Sprintf("Embedding %d chunks", len(chunks)), func() error {
		return ingest.BuildIndex(ctx, chunks, retrieval.Embedder, retrieval.Driver, logger.Nop())
	})
	if err != nil {
		return err
	}

	count, err := retrieval.Driver.Count(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\n  %s Indexed %s chunks %s\n\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(fmt.Sprintf("%d", count)),
		cliui.DimStyle.Render(fmt.Sprintf("(%s)", cliui.FormatDuration(time.Since(started)))),
	)
	return nil
}

// watchAndRebuild blocks, re-ingesting a file whenever it changes under
// any of the watched paths. Ctrl+C stops the watch.
func (c *indexCommander) watchAndRebuild(ctx context.Context, ingester *ingest.Ingester, retrieval *stack.Retrieval, log *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, path := range c.paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		dir := path
		if !info.IsDir() {
			dir = filepath.Dir(path)
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Watching for changes. Ctrl+C to stop."))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			chunks, err := ingester.IngestFile(event.Name)
			if err != nil {
				// unsupported or transient file, skip it
				log.Debug("skipping changed file", "path", event.Name, "error", err)
				continue
			}

			if err := ingest.BuildIndex(ctx, chunks, retrieval.Embedder, retrieval.Driver, log); err != nil {
				fmt.Fprintf(os.Stderr, "  %s reindexing %s: %v\n", cliui.FailMark, event.Name, err)
				continue
			}
			fmt.Printf("  %s Reindexed %s %s\n",
				cliui.SuccessMark,
				cliui.NameStyle.Render(event.Name),
				cliui.DimStyle.Render(fmt.Sprintf("(%d chunks)", len(chunks))),
			)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)

		case <-sigChan:
			fmt.Println()
			return nil
		}
	}
}
