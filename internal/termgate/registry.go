package termgate

import (
    "fmt"
    "sync"
    "time"

    "github.com/google/uuid"
)

// Session couples a gate with the opaque token handed to the client.
type Session struct {
    ID   string
    Gate *Gate
}

// Registry tracks at most one open reading session per
// (resident, reservation) pair.  Opening a session while one is already
// open discards the old one first, so partial reading progress is never
// persisted across screen visits.
type Registry struct {
    mu       sync.Mutex
    sessions map[string]*Session

    required  int
    tickEvery time.Duration
}

// NewRegistry builds a registry whose sessions require the given reading
// time.  tickEvery is the gate tick interval; production wiring passes
// one second, tests pass zero and drive gates manually.
func NewRegistry(requiredSeconds int, tickEvery time.Duration) *Registry {
    return &Registry{
        sessions:  make(map[string]*Session),
        required:  requiredSeconds,
        tickEvery: tickEvery,
    }
}

func sessionKey(residentID string, reservationID uint64) string {
    return fmt.Sprintf("%s:%d", residentID, reservationID)
}

// Open starts a fresh session for the pair, replacing and stopping any
// session already open.  The returned session always begins at
// Reading(0).
func (r *Registry) Open(residentID string, reservationID uint64) *Session {
    key := sessionKey(residentID, reservationID)
    r.mu.Lock()
    defer r.mu.Unlock()
    if old, ok := r.sessions[key]; ok {
        old.Gate.Stop()
    }
    s := &Session{ID: uuid.NewString(), Gate: NewGate(r.required, r.tickEvery)}
    r.sessions[key] = s
    return s
}

// Get returns the open session for the pair, or nil when none exists.
func (r *Registry) Get(residentID string, reservationID uint64) *Session {
    r.mu.Lock()
    defer r.mu.Unlock()
    return r.sessions[sessionKey(residentID, reservationID)]
}

// Discard stops and removes the pair's session.  It is a no-op when no
// session is open.
func (r *Registry) Discard(residentID string, reservationID uint64) {
    key := sessionKey(residentID, reservationID)
    r.mu.Lock()
    defer r.mu.Unlock()
    if s, ok := r.sessions[key]; ok {
        s.Gate.Stop()
        delete(r.sessions, key)
    }
}

// RequiredSeconds exposes the configured reading time for handlers to
// echo back to clients.
func (r *Registry) RequiredSeconds() int { return r.required }
