package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/parchmentlabs/lectern/pkg/chat"
	"github.com/parchmentlabs/lectern/pkg/retrieve"
)

// Server is the API server for chatting against and searching the index.
type Server struct {
	config    Config
	registry  *chat.Registry
	retriever *retrieve.Retriever
	logger    *slog.Logger
	app       *fiber.App
}

// NewServer creates a new API server.
// The registry and retriever are injected to allow sharing with other
// components (e.g., the MCP server).
func NewServer(config Config, registry *chat.Registry, retriever *retrieve.Retriever, mcpHandler http.Handler, logger *slog.Logger) (*Server, error) {
	if registry == nil {
		return nil, errors.New("session registry is required")
	}
	if retriever == nil {
		return nil, errors.New("retriever is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:    config,
		registry:  registry,
		retriever: retriever,
		logger:    logger,
		app:       app,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/v1/sessions", s.handleCreateSession)
	app.Delete("/v1/sessions/:id", s.handleRemoveSession)
	app.Post("/v1/sessions/:id/messages", s.handlePostMessage)
	app.Get("/v1/sessions/:id/transcript", s.handleGetTranscript)
	app.Get("/v1/search", s.handleSearchEndpoint)

	if mcpHandler != nil {
		app.All("/mcp", adaptor.HTTPHandler(mcpHandler))
	}

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
