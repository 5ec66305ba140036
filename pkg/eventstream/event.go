// Package eventstream defines transport-neutral telemetry events emitted
// by the chat pipeline, and the publisher interface backends implement.
package eventstream

import (
	"time"

	"github.com/parchmentlabs/lectern/pkg/transcript"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeTurnAppended is emitted after a turn is appended to a
	// session transcript.
	EventTypeTurnAppended = "lectern.turn.appended"
)

// Turn outcomes.
const (
	// OutcomeAnswered means the gate passed and the model's answer was used.
	OutcomeAnswered = "answered"

	// OutcomeRefused means the gate failed and the refusal was substituted.
	OutcomeRefused = "refused"

	// OutcomeErrored means a collaborator failed and an error turn was
	// surfaced instead of an answer.
	OutcomeErrored = "errored"
)

// TurnAppendedEvent is a transport-neutral event payload for one
// appended transcript turn.
type TurnAppendedEvent struct {
	SchemaVersion int             `json:"schema_version"`
	EventType     string          `json:"event_type"`
	EventID       string          `json:"event_id"`
	EmittedAt     time.Time       `json:"emitted_at"`
	SessionID     string          `json:"session_id"`
	Outcome       string          `json:"outcome"`
	ErrorKind     string          `json:"error_kind,omitempty"`
	DurationMs    int64           `json:"duration_ms"`
	Turn          transcript.Turn `json:"turn"`
}
