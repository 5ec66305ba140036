// Package initcmder provides the init command for initializing a local
// .lectern directory in the current working directory.
package initcmder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/parchmentlabs/lectern/pkg/config"
)

const (
	dirName = ".lectern"
)

const initLongDesc string = `Initialize a new .lectern/ directory in the current working directory.

Creates a local .lectern/ directory that takes precedence over the default
~/.lectern/ directory for configuration and the index artifact.

This is useful for maintaining a separate index per project or directory.

Use --preset to also write a config.toml seeded for a provider:
  openai    OpenAI completions and embeddings
  ollama    Local Ollama for both (the default configuration)

Examples:
  lectern init
  lectern init --preset openai`

const initShortDesc string = "Initialize a local .lectern/ directory"

func NewInitCmd() *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(preset)
		},
	}

	cmd.Flags().StringVarP(&preset, "preset", "p", "", "Write config.toml from a provider preset (openai, ollama)")

	return cmd
}

func runInit(preset string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		fmt.Printf("Already initialized: %s\n", dir)
	default:
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating .lectern directory: %w", err)
		}
		fmt.Printf("Initialized .lectern directory: %s\n", dir)
	}

	if preset == "" {
		return nil
	}

	cfg, err := config.PresetConfig(preset)
	if err != nil {
		return err
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfger.SaveConfig(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Wrote %s preset config: %s\n", preset, filepath.Join(dir, "config.toml"))
	return nil
}
