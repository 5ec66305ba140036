// Package chat orchestrates one retrieval-gated conversation per session.
// Each user input runs one cycle through the pipeline: append the user
// turn, retrieve context, gate it, and either complete against the model
// or substitute the configured refusal. Every cycle ends back in Idle
// with exactly one new assistant turn, whatever branch it took.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/parchmentlabs/lectern/pkg/embeddings"
	"github.com/parchmentlabs/lectern/pkg/eventstream"
	"github.com/parchmentlabs/lectern/pkg/gate"
	"github.com/parchmentlabs/lectern/pkg/llm"
	"github.com/parchmentlabs/lectern/pkg/prompt"
	"github.com/parchmentlabs/lectern/pkg/retrieve"
	"github.com/parchmentlabs/lectern/pkg/transcript"
	"github.com/parchmentlabs/lectern/pkg/vector"
)

// State is the orchestrator's position in one request cycle.
type State string

const (
	StateIdle               State = "idle"
	StateAwaitingRetrieval  State = "awaiting_retrieval"
	StateAwaitingCompletion State = "awaiting_completion"
)

// Config holds everything a session needs. Collaborator fields are
// required; misconfiguration fails at construction, not mid-conversation.
type Config struct {
	// SessionID identifies the session in logs and events. Generated
	// when empty.
	SessionID string

	// Model is the model identifier passed to the completer.
	Model string

	// Temperature is the sampling temperature passed to the completer.
	Temperature float64

	// TopK is how many chunks to retrieve per query. Must be >= 1.
	TopK int

	// Persona is the system persona the prompt assembler renders.
	Persona string

	// Refusal is the canned reply substituted when the gate refuses.
	Refusal string

	Retriever *retrieve.Retriever
	Gate      *gate.Gate
	Completer llm.Completer

	// Publisher receives a turn event per appended turn. Optional;
	// defaults to discarding events.
	Publisher eventstream.Publisher

	Logger *slog.Logger
}

// Session owns one transcript and runs one request cycle at a time.
type Session struct {
	id          string
	model       string
	temperature float64
	topK        int
	refusal     string

	retriever *retrieve.Retriever
	gate      *gate.Gate
	assembler *prompt.Assembler
	completer llm.Completer
	publisher eventstream.Publisher
	logger    *slog.Logger

	mu         sync.Mutex
	state      State
	transcript *transcript.Transcript
}

// NewSession validates the configuration and creates an idle session
// with an empty transcript.
func NewSession(cfg Config) (*Session, error) {
	if cfg.Retriever == nil {
		return nil, fmt.Errorf("session requires a retriever")
	}
	if cfg.Gate == nil {
		return nil, fmt.Errorf("session requires a gate")
	}
	if cfg.Completer == nil {
		return nil, fmt.Errorf("session requires a completer")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("session requires a model")
	}
	if cfg.TopK < 1 {
		return nil, fmt.Errorf("session topK must be at least 1, got %d", cfg.TopK)
	}
	if strings.TrimSpace(cfg.Refusal) == "" {
		return nil, fmt.Errorf("session requires a refusal message")
	}

	id := cfg.SessionID
	if id == "" {
		id = uuid.NewString()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		id:          id,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		topK:        cfg.TopK,
		refusal:     cfg.Refusal,
		retriever:   cfg.Retriever,
		gate:        cfg.Gate,
		assembler:   prompt.NewAssembler(cfg.Persona),
		completer:   cfg.Completer,
		publisher:   cfg.Publisher,
		logger:      logger.With("session_id", id),
		state:       StateIdle,
		transcript:  transcript.New(),
	}, nil
}

// ID reports the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State reports the current cycle state. Outside a Respond call this is
// always StateIdle.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Transcript returns a copy of the session's turns in append order.
func (s *Session) Transcript() []transcript.Turn {
	return s.transcript.Snapshot()
}

// Respond runs one full request cycle for the given user input and
// returns the assistant turn that concluded it. Exactly one user turn
// and one assistant turn are appended on every branch. One request is
// in flight per session at a time.
func (s *Session) Respond(ctx context.Context, userInput string) (transcript.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now()

	userTurn := transcript.NewTurn(transcript.RoleUser, userInput)
	s.transcript.Append(userTurn)
	s.publishTurn(ctx, userTurn, eventstream.OutcomeAnswered, "", 0)

	s.state = StateAwaitingRetrieval
	assistantTurn, outcome, errorKind := s.runCycle(ctx, userInput)
	s.state = StateIdle

	s.transcript.Append(assistantTurn)
	s.publishTurn(ctx, assistantTurn, outcome, errorKind, time.Since(started).Milliseconds())

	s.logger.Info("cycle complete",
		"outcome", outcome,
		"error_kind", errorKind,
		"duration_ms", time.Since(started).Milliseconds(),
	)

	return assistantTurn, nil
}

// runCycle drives retrieval, gating, and completion for one user input
// and produces the assistant turn. It never fails; failures become
// error-indicating turns.
func (s *Session) runCycle(ctx context.Context, userInput string) (turn transcript.Turn, outcome, errorKind string) {
	// History excludes the user turn just appended; the assembler adds
	// the new input itself as the final message.
	history := s.transcript.Snapshot()
	history = history[:len(history)-1]

	result, err := s.retriever.Retrieve(ctx, userInput, s.topK)
	if err != nil {
		kind := classifyError(err)
		s.logger.Warn("retrieval failed", "error", err, "error_kind", kind)
		return transcript.NewTurn(transcript.RoleAssistant, errorMessage(kind)), eventstream.OutcomeErrored, kind
	}

	if !s.gate.ShouldAnswer(result) {
		s.logger.Debug("gate refused", "matches", len(result.Matches))
		return transcript.NewTurn(transcript.RoleAssistant, s.refusal), eventstream.OutcomeRefused, ""
	}

	s.state = StateAwaitingCompletion

	messages := s.assembler.Assemble(result.Matches, history, userInput)
	answer, err := s.completer.Complete(ctx, llm.ChatRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: s.temperature,
	})
	if err != nil {
		kind := classifyError(err)
		s.logger.Warn("completion failed", "error", err, "error_kind", kind)
		return transcript.NewTurn(transcript.RoleAssistant, errorMessage(kind)), eventstream.OutcomeErrored, kind
	}

	return transcript.NewTurn(transcript.RoleAssistant, answer), eventstream.OutcomeAnswered, ""
}

// publishTurn emits a turn event, logging rather than failing when the
// backend is down. Telemetry never breaks a conversation.
func (s *Session) publishTurn(ctx context.Context, turn transcript.Turn, outcome, errorKind string, durationMs int64) {
	if s.publisher == nil {
		return
	}

	event := &eventstream.TurnAppendedEvent{
		SchemaVersion: eventstream.SchemaVersionV1,
		EventType:     eventstream.EventTypeTurnAppended,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		SessionID:     s.id,
		Outcome:       outcome,
		ErrorKind:     errorKind,
		DurationMs:    durationMs,
		Turn:          turn,
	}

	if err := s.publisher.PublishTurn(ctx, event); err != nil {
		s.logger.Warn("failed to publish turn event", "error", err)
	}
}

// Error-kind markers surfaced inside error turns.
const (
	kindEmbedding   = "embedding_unavailable"
	kindIndex       = "index_not_loaded"
	kindRateLimited = "rate_limited"
	kindAuth        = "auth_error"
	kindUpstream    = "upstream_unavailable"
	kindTimeout     = "timeout"
)

// classifyError maps collaborator failures onto the error taxonomy.
func classifyError(err error) string {
	switch {
	case errors.Is(err, embeddings.ErrUnavailable):
		return kindEmbedding
	case errors.Is(err, vector.ErrNotLoaded):
		return kindIndex
	case errors.Is(err, llm.ErrRateLimited):
		return kindRateLimited
	case errors.Is(err, llm.ErrAuth):
		return kindAuth
	case errors.Is(err, llm.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return kindTimeout
	default:
		return kindUpstream
	}
}

// errorMessage renders a human-readable error turn carrying the kind as
// a bracketed marker.
func errorMessage(kind string) string {
	var reason string
	switch kind {
	case kindEmbedding:
		reason = "I couldn't reach the embedding service to look that up."
	case kindIndex:
		reason = "The document index isn't loaded, so I have nothing to search."
	case kindRateLimited:
		reason = "The model provider is rate limiting requests right now."
	case kindAuth:
		reason = "The model provider rejected this deployment's credentials."
	case kindTimeout:
		reason = "The request took too long and timed out."
	default:
		reason = "The model provider is unavailable right now."
	}

	return fmt.Sprintf("[%s] %s Please try again.", kind, reason)
}
