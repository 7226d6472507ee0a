// Package booking contains the pure core of the reservation engine: the
// conflict decision, the fee tier step function and the attendance
// aggregation.  Nothing in this package touches the store; callers feed
// it snapshots and apply its results.
package booking

import (
    "fmt"
    "time"

    "github.com/moradaviva/amenity-reservation/internal/model"
)

// Candidate is the (category, event date) pair a caller wants to book.
// Only the date component of EventDate participates in the decision.
type Candidate struct {
    Tipo       string
    DataEvento time.Time
}

// ConflictError reports that a candidate collides with an existing
// reservation on the same category and calendar date.  It carries the
// blocking reservation so the caller can name the occupied date in the
// user-facing message.
type ConflictError struct {
    Conflicting model.Reservation
}

// Error renders the conflict with the blocking category and day.
func (e *ConflictError) Error() string {
    return fmt.Sprintf("slot already reserved: %s on %s",
        e.Conflicting.Tipo, e.Conflicting.EventDay().Format("2006-01-02"))
}

// CheckConflict scans existing reservations for one occupying the same
// (category, calendar date) slot as the candidate.  Category comparison
// is exact but case-insensitive; dates are compared with the time
// component stripped.  A nil return admits the candidate.
//
// An empty existing set always admits.  A reservation for a different
// category on the same date always admits; there is no capacity limit
// across categories.  Resubmitting an already-booked request is rejected
// like any other duplicate.
func CheckConflict(candidate Candidate, existing []model.Reservation) error {
    wantTipo := model.NormalizeCategory(candidate.Tipo)
    wantDay := model.DateOnly(candidate.DataEvento)
    for _, r := range existing {
        if model.NormalizeCategory(r.Tipo) == wantTipo && r.EventDay().Equal(wantDay) {
            return &ConflictError{Conflicting: r}
        }
    }
    return nil
}
