package model

// GuestEntry is one invitee listed under a reservation.  The presence
// flag is flipped by gatehouse staff at check-in, independently of the
// reservation record itself.  The ledger of a reservation is treated as
// an unordered bag keyed by guest id; nothing may depend on insertion
// order.
//
// Fields:
//  ID       – primary key identifier.
//  Nome     – guest's name as entered by the resident.
//  Presente – true once the guest has physically checked in.
type GuestEntry struct {
    ID       uint64 `json:"id"`
    Nome     string `json:"nome"`
    Presente bool   `json:"presente"`
}

// GuestLedger is the unordered guest collection of one reservation,
// keyed by guest id.
type GuestLedger map[uint64]GuestEntry
