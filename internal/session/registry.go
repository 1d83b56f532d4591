package session

import "sync"

// Registry holds the active session of each browser, keyed by the session
// cookie value. Sessions are in-memory only: nothing is persisted before a
// session finalizes, so a process restart simply starts everyone at the
// configuration screen.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Get returns the session for id, creating a fresh one if absent.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		s = New()
		r.sessions[id] = s
	}
	return s
}

// Reset discards the session for id and returns a fresh one. This is the
// restart path: every per-session field is gone because the whole value is.
func (r *Registry) Reset(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := New()
	r.sessions[id] = s
	return s
}
