// Package configcmder provides the config command for managing persistent
// lectern configuration stored in the .lectern/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent lectern configuration.

Configuration is stored as config.toml in the .lectern/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  api.listen,
  llm.provider, llm.target, llm.model, llm.temperature,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  vector_store.provider, vector_store.target, vector_store.collection,
  gate.metric, gate.threshold,
  chat.persona, chat.refusal, chat.top_k,
  index.chunk_size, index.overlap,
  events.provider, events.brokers, events.topic

Use subcommands to get, set, or list configuration values:
  lectern config set <key> <value>    Set a configuration value
  lectern config get <key>            Get a configuration value
  lectern config list                 List all configuration values

Examples:
  lectern config set llm.model gemma3:latest
  lectern config set embedding.model nomic-embed-text
  lectern config get gate.threshold
  lectern config list`

const configShortDesc string = "Manage persistent lectern configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
