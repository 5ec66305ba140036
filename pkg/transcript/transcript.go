// Package transcript holds the append-only conversation history for one
// chat session. Turns are immutable once appended; nothing is ever
// edited or removed.
package transcript

import (
	"sync"
	"time"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one utterance in a conversation.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTurn creates a turn stamped with the current time.
func NewTurn(role Role, content string) Turn {
	return Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// Transcript is an ordered, append-only sequence of turns. Safe for
// concurrent use.
type Transcript struct {
	mu    sync.RWMutex
	turns []Turn
}

// New creates an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// Append adds a turn to the end of the transcript.
func (t *Transcript) Append(turn Turn) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.turns = append(t.turns, turn)
}

// Snapshot returns a copy of all turns in append order. Mutating the
// returned slice does not affect the transcript.
func (t *Transcript) Snapshot() []Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()

	turns := make([]Turn, len(t.turns))
	copy(turns, t.turns)
	return turns
}

// Len reports the number of turns.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.turns)
}

// Last returns the most recent turn, if any.
func (t *Transcript) Last() (Turn, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.turns) == 0 {
		return Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}
