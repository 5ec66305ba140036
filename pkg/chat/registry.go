package chat

import (
	"fmt"
	"sync"
)

// Registry tracks live sessions for a serving process. Each session is
// independent; the registry only hands them out by ID.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	// newSession builds a session for a fresh ID.
	newSession func(id string) (*Session, error)
}

// NewRegistry creates a registry that builds sessions with the given
// constructor.
func NewRegistry(newSession func(id string) (*Session, error)) *Registry {
	return &Registry{
		sessions:   make(map[string]*Session),
		newSession: newSession,
	}
}

// Create builds and registers a new session under the given ID. An
// empty ID lets the session generate one.
func (r *Registry) Create(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != "" {
		if _, exists := r.sessions[id]; exists {
			return nil, fmt.Errorf("session %s already exists", id)
		}
	}

	session, err := r.newSession(id)
	if err != nil {
		return nil, err
	}

	r.sessions[session.ID()] = session
	return session, nil
}

// Get returns the session with the given ID, if registered.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	return session, ok
}

// Remove drops a session from the registry.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
}

// Len reports the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
