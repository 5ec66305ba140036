// Package searchcmder provides the search command for semantic search
// over indexed chunks.
package searchcmder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/parchmentlabs/lectern/cmd/lectern/stack"
	"github.com/parchmentlabs/lectern/pkg/config"
	"github.com/parchmentlabs/lectern/pkg/logger"
	"github.com/parchmentlabs/lectern/pkg/retrieve"
	"github.com/parchmentlabs/lectern/pkg/vector"
)

var (
	rankStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	distanceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	previewStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type searchCommander struct {
	query string
	topK  int
	asJSON bool

	embedProv    string
	embedTarget  string
	embedModel   string
	embedDims    uint
	vectorProv   string
	vectorTarget string
	collection   string

	configDir string
	debug     bool
	cfg       *config.Config
}

const searchLongDesc string = `Search the indexed chunks.

Embeds the query and returns the closest indexed chunks, nearest first,
with their source references and distances. Requires an index built with
"lectern index".

Use --json to emit the raw result object for piping into other tools.

Example:
  lectern search "how are returns handled"
  lectern search "setup steps" --top 10
  lectern search "setup steps" --json | jq '.matches[0]'`

const searchShortDesc string = "Semantic search over indexed chunks"

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, searchFlagKeys)
			cmder.cfg = config.ConfigFromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	cmd.Flags().IntVarP(&cmder.topK, "top", "k", 5, "Number of results to return")
	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Output the raw result as JSON")
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingProv, &cmder.embedProv)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingTgt, &cmder.embedTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingModel, &cmder.embedModel)
	config.AddUintFlag(cmd, config.Flags, config.FlagEmbeddingDims, &cmder.embedDims)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorProv, &cmder.vectorProv)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorTgt, &cmder.vectorTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagCollection, &cmder.collection)

	return cmd
}

var searchFlagKeys = []string{
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagVectorProv,
	config.FlagVectorTgt,
	config.FlagCollection,
}

func (c *searchCommander) run() error {
	log := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true), logger.WithWriter(os.Stderr))

	retrieval, err := stack.NewRetrieval(stack.Options{
		Config:               c.cfg,
		ConfigDir:            c.configDir,
		RequireExistingIndex: true,
		Logger:               log,
	})
	if err != nil {
		if errors.Is(err, vector.ErrNotLoaded) {
			return fmt.Errorf("no index found; run \"lectern index <path>\" first")
		}
		return err
	}
	defer retrieval.Close()

	result, err := retrieval.Retriever.Retrieve(context.Background(), c.query, c.topK)
	if err != nil {
		if errors.Is(err, vector.ErrNotLoaded) {
			return fmt.Errorf("no index found; run \"lectern index <path>\" first")
		}
		return err
	}

	if c.asJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	if len(result.Matches) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("\n%s %s\n\n",
		headerStyle.Render("Search results for:"),
		sourceStyle.Render(fmt.Sprintf("%q", result.Query)),
	)

	for i, match := range result.Matches {
		printMatch(i+1, match)
	}

	return nil
}

func printMatch(rank int, match retrieve.Match) {
	fmt.Printf("  %s  %s  %s\n",
		rankStyle.Render(fmt.Sprintf("#%d", rank)),
		distanceStyle.Render(fmt.Sprintf("distance: %.4f", match.Distance)),
		sourceStyle.Render(match.SourceRef),
	)

	preview := strings.ReplaceAll(match.Text, "\n", " ")
	if len(preview) > 160 {
		preview = preview[:157] + "..."
	}

	fmt.Printf("  %s\n", previewStyle.Render(preview))
	fmt.Printf("  %s\n\n", dimStyle.Render(match.ID))
}
