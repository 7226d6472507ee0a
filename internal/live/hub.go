// Package live fans attendance updates out to connected clients.  The
// queue consumer publishes into the hub; SSE handlers subscribe so every
// session watching a reservation sees badge and fee changes as guests
// check in, without polling the database.
package live

import (
    "sync"
    "time"
)

// AttendanceUpdate is one recomputed snapshot of a reservation's
// attendance.  FeeCents is nil for categories that are not billed.
type AttendanceUpdate struct {
    ReservationID uint64    `json:"reservation_id"`
    PresentCount  int       `json:"present_count"`
    AttendeeCount int       `json:"attendee_count"`
    FeeCents      *uint32   `json:"fee_cents,omitempty"`
    ComputedAt    time.Time `json:"computed_at"`
}

// Hub is an in-process broadcast registry keyed by reservation id.  A
// slow subscriber never blocks the publisher: updates to a full channel
// are dropped, which is safe because every update is a full snapshot.
type Hub struct {
    mu   sync.Mutex
    subs map[uint64]map[chan AttendanceUpdate]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
    return &Hub{subs: make(map[uint64]map[chan AttendanceUpdate]struct{})}
}

// Subscribe registers interest in one reservation's updates.  The
// returned cancel function removes the subscription and closes the
// channel; it must be called when the watching session ends.
func (h *Hub) Subscribe(reservationID uint64) (<-chan AttendanceUpdate, func()) {
    ch := make(chan AttendanceUpdate, 8)
    h.mu.Lock()
    set, ok := h.subs[reservationID]
    if !ok {
        set = make(map[chan AttendanceUpdate]struct{})
        h.subs[reservationID] = set
    }
    set[ch] = struct{}{}
    h.mu.Unlock()

    var once sync.Once
    cancel := func() {
        once.Do(func() {
            h.mu.Lock()
            if set, ok := h.subs[reservationID]; ok {
                delete(set, ch)
                if len(set) == 0 {
                    delete(h.subs, reservationID)
                }
            }
            h.mu.Unlock()
            close(ch)
        })
    }
    return ch, cancel
}

// Publish delivers an update to every subscriber of its reservation.
func (h *Hub) Publish(u AttendanceUpdate) {
    h.mu.Lock()
    defer h.mu.Unlock()
    for ch := range h.subs[u.ReservationID] {
        select {
        case ch <- u:
        default:
            // Subscriber is not keeping up; drop, the next snapshot supersedes.
        }
    }
}
