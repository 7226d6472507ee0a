package model

import (
    "strings"
    "time"
)

// Category identifies the kind of slot a reservation occupies.  The
// store keeps it as free text for compatibility with the legacy data,
// but the engine treats it as a closed set and always compares it
// case-insensitively.
type Category = string

const (
    // CategoryMove is a moving slot.  Moves never incur a usage fee.
    CategoryMove Category = "Mudanca"
    // CategoryEvent is a party-hall slot.  Events are billed by attendance tier.
    CategoryEvent Category = "Evento"
)

// NormalizeCategory returns the canonical lower-cased form of a category
// used for conflict comparison and for the slot uniqueness key.
func NormalizeCategory(c string) string {
    return strings.ToLower(strings.TrimSpace(c))
}

// CreatedByGatehouse is the annotation stored when the gatehouse books a
// slot on behalf of a resident.  It affects only display, never behavior.
const CreatedByGatehouse = "Portaria"

// TemporalState classifies a reservation relative to a reference date.
// It is always derived from the event date; there is no stored status
// column to drift out of sync.
type TemporalState string

const (
    // StateUpcoming means the event date is today or later.
    StateUpcoming TemporalState = "UPCOMING"
    // StatePast means the event date has already passed.
    StatePast TemporalState = "PAST"
    // StateCancelled is recorded in the cancellation audit when a
    // reservation is removed.  A live reservation row is never in this
    // state; it exists so cancellations stay observable after the delete.
    StateCancelled TemporalState = "CANCELLED"
)

// Reservation is a booked slot for a shared amenity or a move, scoped to
// one apartment and one calendar date.  JSON field names follow the
// persisted store contract of the condominium suite.
//
// Fields:
//  ID          – primary key identifier, assigned by the store.
//  Tipo        – reservation category (see Category constants).
//  Nome        – requester's display name.
//  CPF         – requester's tax id.
//  Apartamento – requester's apartment number.
//  IDMorador   – identifier of the resident the slot belongs to.
//  DataEvento  – event timestamp; conflict and lifecycle logic use only
//                its date component.
//  DataCriacao – creation timestamp, set by the engine at create time.
//  CriadoPor   – "Portaria" when booked by the gatehouse, empty otherwise.
type Reservation struct {
    ID          uint64    `json:"id"`
    Tipo        string    `json:"tipo"`
    Nome        string    `json:"nome"`
    CPF         string    `json:"cpf"`
    Apartamento string    `json:"apartamento"`
    IDMorador   string    `json:"idMorador"`
    DataEvento  time.Time `json:"dataEvento"`
    DataCriacao time.Time `json:"dataCriacao"`
    CriadoPor   string    `json:"criadoPor,omitempty"`
}

// EventDay returns the reservation's event date with the time component
// zeroed, in UTC.  All conflict and temporal comparisons go through this.
func (r Reservation) EventDay() time.Time {
    return DateOnly(r.DataEvento)
}

// TemporalStateAt derives the reservation's lifecycle bucket at the given
// reference time.  Upcoming when the event day is on or after the
// reference day, Past otherwise.  This derivation is the single source of
// truth for which list (upcoming vs. historical) a reservation appears in.
func (r Reservation) TemporalStateAt(ref time.Time) TemporalState {
    if !r.EventDay().Before(DateOnly(ref)) {
        return StateUpcoming
    }
    return StatePast
}

// DateOnly strips the time-of-day from t and pins the result to UTC so
// that two timestamps on the same calendar day always compare equal.
func DateOnly(t time.Time) time.Time {
    y, m, d := t.UTC().Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
