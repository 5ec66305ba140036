// Package lecterncmder
package lecterncmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/parchmentlabs/lectern/cmd/lectern/chat"
	configcmder "github.com/parchmentlabs/lectern/cmd/lectern/config"
	indexcmder "github.com/parchmentlabs/lectern/cmd/lectern/index"
	initcmder "github.com/parchmentlabs/lectern/cmd/lectern/init"
	searchcmder "github.com/parchmentlabs/lectern/cmd/lectern/search"
	servecmder "github.com/parchmentlabs/lectern/cmd/lectern/serve"
	versioncmder "github.com/parchmentlabs/lectern/cmd/version"
)

const lecternLongDesc string = `Lectern answers questions from your documents, and refuses to answer
from anything else.

Build an index from local files, then chat against it:
  lectern index ./docs       Chunk, embed, and index documents
  lectern chat               Interactive chat against the index
  lectern search "query"     Semantic search over indexed chunks
  lectern serve              Run the HTTP API and MCP server`

const lecternShortDesc string = "Lectern - Retrieval-gated document chat"

func NewLecternCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lectern",
		Short: lecternShortDesc,
		Long:  lecternLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .lectern/ directory")

	// Add subcommands
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(indexcmder.NewIndexCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
