// Package queue defines message payloads exchanged over the message broker.
package queue

// PresenceChangedEvent is published whenever gatehouse staff flips a
// guest's presence flag. It carries enough for downstream consumers to
// recompute the attendance tally and derived fee without holding any
// state of their own; the guest ledger in the database stays the only
// source of truth.
type PresenceChangedEvent struct {
    ReservationID uint64 `json:"reservation_id"`
    Tipo          string `json:"tipo"`
    Apartamento   string `json:"apartamento"`
    GuestID       uint64 `json:"guest_id"`
    Presente      bool   `json:"presente"`
    OccurredAt    string `json:"occurred_at"`
}
