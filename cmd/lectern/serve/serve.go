// Package servecmder provides the serve command for running the lectern
// API and MCP servers.
package servecmder

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/parchmentlabs/lectern/api"
	"github.com/parchmentlabs/lectern/api/mcp"
	"github.com/parchmentlabs/lectern/cmd/lectern/stack"
	"github.com/parchmentlabs/lectern/pkg/chat"
	"github.com/parchmentlabs/lectern/pkg/config"
	"github.com/parchmentlabs/lectern/pkg/logger"
	"github.com/parchmentlabs/lectern/pkg/vector"
)

type serveCommander struct {
	configDir string
	debug     bool
	noMCP     bool

	listen       string
	model        string
	temperature  float64
	topK         int
	persona      string
	llmProv      string
	llmTarget    string
	gateMetric   string
	gateThresh   float64
	embedProv    string
	embedTarget  string
	embedModel   string
	embedDims    uint
	vectorProv   string
	vectorTarget string
	collection   string

	cfg *config.Config
}

const serveLongDesc string = `Run the lectern API server.

Serves chat sessions and semantic search over HTTP, and exposes the same
index to MCP clients at /mcp. Requires an index built with "lectern index".

Endpoints:
  POST /v1/sessions                    Create a chat session
  POST /v1/sessions/:id/messages       Run one chat cycle
  GET  /v1/sessions/:id/transcript     Full session transcript
  GET  /v1/search                      Semantic search
  ALL  /mcp                            MCP (search and ask tools)

Examples:
  lectern serve
  lectern serve --listen :9000
  lectern serve --no-mcp`

const serveShortDesc string = "Run the lectern API and MCP servers"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, serveFlagKeys)
			cmder.cfg = config.ConfigFromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPIListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	config.AddFloatFlag(cmd, config.Flags, config.FlagTemperature, &cmder.temperature)
	config.AddIntFlag(cmd, config.Flags, config.FlagTopK, &cmder.topK)
	config.AddStringFlag(cmd, config.Flags, config.FlagPersona, &cmder.persona)
	config.AddStringFlag(cmd, config.Flags, config.FlagLLMProvider, &cmder.llmProv)
	config.AddStringFlag(cmd, config.Flags, config.FlagLLMTarget, &cmder.llmTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagGateMetric, &cmder.gateMetric)
	config.AddFloatFlag(cmd, config.Flags, config.FlagGateThreshold, &cmder.gateThresh)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingProv, &cmder.embedProv)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingTgt, &cmder.embedTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingModel, &cmder.embedModel)
	config.AddUintFlag(cmd, config.Flags, config.FlagEmbeddingDims, &cmder.embedDims)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorProv, &cmder.vectorProv)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorTgt, &cmder.vectorTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagCollection, &cmder.collection)
	cmd.Flags().BoolVar(&cmder.noMCP, "no-mcp", false, "Disable the MCP endpoint")

	return cmd
}

var serveFlagKeys = []string{
	config.FlagAPIListen,
	config.FlagModel,
	config.FlagTemperature,
	config.FlagTopK,
	config.FlagPersona,
	config.FlagLLMProvider,
	config.FlagLLMTarget,
	config.FlagGateMetric,
	config.FlagGateThreshold,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagVectorProv,
	config.FlagVectorTgt,
	config.FlagCollection,
}

func (c *serveCommander) run() error {
	log := logger.New(logger.WithDebug(c.debug), logger.WithJSON(true))

	chatStack, err := stack.NewChat(stack.Options{
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
	defer chatStack.Close()

	registry := chat.NewRegistry(func(id string) (*chat.Session, error) {
		return chatStack.NewSession(id, c.cfg, log)
	})

	mcpServer, err := mcp.NewServer(mcp.Config{
		Retriever: chatStack.Retriever,
		NewSession: func() (*chat.Session, error) {
			return chatStack.NewSession("", c.cfg, log)
		},
		Noop:   c.noMCP,
		Logger: log,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	server, err := api.NewServer(
		api.Config{ListenAddr: c.cfg.API.Listen},
		registry,
		chatStack.Retriever,
		mcpServer.Handler(),
		log,
	)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	// Channel to capture the server error
	errChan := make(chan error, 1)

	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())
		return server.Shutdown()
	}
}
