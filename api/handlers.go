package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/parchmentlabs/lectern/pkg/transcript"
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateSessionRequest is the body for POST /v1/sessions.
// The ID is optional; one is generated when absent.
type CreateSessionRequest struct {
	ID string `json:"id,omitempty"`
}

// SessionResponse describes a chat session.
type SessionResponse struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

// PostMessageRequest is the body for POST /v1/sessions/:id/messages.
type PostMessageRequest struct {
	Message string `json:"message"`
}

// TurnResponse is the assistant turn produced for a message.
type TurnResponse struct {
	SessionID string          `json:"session_id"`
	Turn      transcript.Turn `json:"turn"`
}

// TranscriptResponse is the full ordered transcript of a session.
type TranscriptResponse struct {
	SessionID string            `json:"session_id"`
	Turns     []transcript.Turn `json:"turns"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleCreateSession creates a new chat session.
func (s *Server) handleCreateSession(c *fiber.Ctx) error {
	var req CreateSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "invalid request body",
			})
		}
	}

	session, err := s.registry.Create(req.ID)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	s.logger.Info("session created", "session_id", session.ID())

	return c.Status(fiber.StatusCreated).JSON(SessionResponse{
		ID:    session.ID(),
		State: string(session.State()),
	})
}

// handleRemoveSession drops a session from the registry.
func (s *Server) handleRemoveSession(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, ok := s.registry.Get(id); !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "session not found",
		})
	}
	s.registry.Remove(id)
	return c.SendStatus(fiber.StatusNoContent)
}

// handlePostMessage runs one full chat cycle and returns the
// assistant turn.
func (s *Server) handlePostMessage(c *fiber.Ctx) error {
	session, ok := s.registry.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "session not found",
		})
	}

	var req PostMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid request body",
		})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "message is required",
		})
	}

	turn, err := session.Respond(c.Context(), req.Message)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(TurnResponse{
		SessionID: session.ID(),
		Turn:      turn,
	})
}

// handleGetTranscript returns the session transcript, oldest first.
func (s *Server) handleGetTranscript(c *fiber.Ctx) error {
	session, ok := s.registry.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: "session not found",
		})
	}

	return c.JSON(TranscriptResponse{
		SessionID: session.ID(),
		Turns:     session.Transcript(),
	})
}
