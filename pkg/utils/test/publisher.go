package testutils

import (
	"context"
	"sync"

	"github.com/parchmentlabs/lectern/pkg/eventstream"
)

// MockPublisher records published events for assertions.
type MockPublisher struct {
	mu     sync.Mutex
	events []eventstream.TurnAppendedEvent

	// Err causes PublishTurn to fail.
	Err error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishTurn(_ context.Context, event *eventstream.TurnAppendedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if event == nil {
		return eventstream.ErrNilTurnEvent
	}
	m.events = append(m.events, *event)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

// Published returns a copy of all recorded events in publish order.
func (m *MockPublisher) Published() []eventstream.TurnAppendedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	events := make([]eventstream.TurnAppendedEvent, len(m.events))
	copy(events, m.events)
	return events
}

var _ eventstream.Publisher = (*MockPublisher)(nil)
