// Package termgate implements the timed state machine that gates the
// signing of a reservation's term of responsibility.  A session starts
// in Reading with zero elapsed seconds; a one-second tick advances it
// until the required reading time has passed, at which point it becomes
// Eligible and stays Eligible for the rest of the session.  Discarding
// a session stops its tick source; reopening always restarts at zero.
package termgate

import (
    "fmt"
    "sync"
    "time"
)

// State names the two phases of a reading session.
type State string

const (
    // StateReading means the required reading time has not elapsed yet.
    StateReading State = "READING"
    // StateEligible means the submit precondition is satisfiable.  The
    // transition is terminal within a session.
    StateEligible State = "ELIGIBLE"
)

// ErrNotEligible is returned when submit is attempted before the gate is
// Eligible.  It carries the seconds still missing so the caller can
// surface them; this is a local precondition failure, never an I/O error.
type ErrNotEligible struct {
    Remaining int
}

func (e *ErrNotEligible) Error() string {
    return fmt.Sprintf("term not readable yet: %d seconds remaining", e.Remaining)
}

// ErrNotAccepted is returned when the gate is Eligible but the caller
// has not ticked the acceptance box.
type ErrNotAccepted struct{}

func (e *ErrNotAccepted) Error() string { return "terms not accepted" }

// Gate is one reading session's state machine.  It is safe for
// concurrent use; the tick goroutine and HTTP handlers may touch it at
// the same time.
type Gate struct {
    mu       sync.Mutex
    elapsed  int
    required int
    stop     chan struct{}
    stopOnce sync.Once
}

// NewGate starts a session at Reading(0).  requiredSeconds is how long
// the requester must stay on the term before becoming Eligible.  When
// tickEvery is positive, a ticker goroutine advances the gate until it
// is Eligible or stopped; tests drive the gate through Tick instead.
func NewGate(requiredSeconds int, tickEvery time.Duration) *Gate {
    if requiredSeconds < 0 {
        requiredSeconds = 0
    }
    g := &Gate{required: requiredSeconds, stop: make(chan struct{})}
    if tickEvery > 0 {
        go g.run(tickEvery)
    }
    return g
}

// run advances the gate once per interval until eligibility or Stop.
// The ticker is released on both exits so no periodic callback outlives
// its session.
func (g *Gate) run(every time.Duration) {
    t := time.NewTicker(every)
    defer t.Stop()
    for {
        select {
        case <-g.stop:
            return
        case <-t.C:
            if g.Tick() {
                return
            }
        }
    }
}

// Tick advances elapsed time by one second and reports whether the gate
// is now Eligible.  Ticks past eligibility are no-ops; there is no back
// transition.
func (g *Gate) Tick() bool {
    g.mu.Lock()
    defer g.mu.Unlock()
    if g.elapsed < g.required {
        g.elapsed++
    }
    return g.elapsed >= g.required
}

// State returns the current phase and, while Reading, the whole seconds
// still required before the gate becomes Eligible.
func (g *Gate) State() (State, int) {
    g.mu.Lock()
    defer g.mu.Unlock()
    if g.elapsed >= g.required {
        return StateEligible, 0
    }
    return StateReading, g.required - g.elapsed
}

// CheckSubmit validates the submit precondition: the gate must be
// Eligible and the acceptance box must be ticked.  It never mutates the
// gate, so a failed store write afterwards leaves eligibility intact and
// the user need not re-wait.
func (g *Gate) CheckSubmit(accepted bool) error {
    if st, remaining := g.State(); st != StateEligible {
        return &ErrNotEligible{Remaining: remaining}
    }
    if !accepted {
        return &ErrNotAccepted{}
    }
    return nil
}

// Stop cancels the session's tick source.  It is idempotent and must be
// called whenever the owning screen is torn down, so no orphaned
// periodic callback keeps firing.
func (g *Gate) Stop() {
    g.stopOnce.Do(func() { close(g.stop) })
}
