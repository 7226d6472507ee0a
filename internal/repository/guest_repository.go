package repository

import (
    "context"
    "database/sql"

    "github.com/moradaviva/amenity-reservation/internal/model"
)

// GuestRepo provides persistence for the guest ledger hanging under a
// reservation.  The ledger is read back as a map keyed by guest id;
// nothing in the engine may rely on row order.  The attendance count is
// never stored: it is always recomputed from the presence flags.
type GuestRepo struct {
    db *sql.DB
}

// NewGuestRepo returns a new GuestRepo bound to the given database.
func NewGuestRepo(db *sql.DB) *GuestRepo { return &GuestRepo{db: db} }

// Add inserts a guest under a reservation with the presence flag unset
// and returns the stored entry with its generated id.
func (r *GuestRepo) Add(ctx context.Context, reservationID uint64, nome string) (*model.GuestEntry, error) {
    const q = `INSERT INTO reservation_guests (reservation_id, nome, presente) VALUES (?, ?, FALSE)`
    result, err := r.db.ExecContext(ctx, q, reservationID, nome)
    if err != nil {
        return nil, err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return nil, err
    }
    return &model.GuestEntry{ID: uint64(id), Nome: nome, Presente: false}, nil
}

// LedgerByReservation loads the full guest ledger of a reservation as an
// unordered map keyed by guest id.  An empty map is returned when the
// reservation has no guests.
func (r *GuestRepo) LedgerByReservation(ctx context.Context, reservationID uint64) (model.GuestLedger, error) {
    const q = `SELECT id, nome, presente FROM reservation_guests WHERE reservation_id = ?`
    rows, err := r.db.QueryContext(ctx, q, reservationID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    ledger := make(model.GuestLedger)
    for rows.Next() {
        var g model.GuestEntry
        if err := rows.Scan(&g.ID, &g.Nome, &g.Presente); err != nil {
            return nil, err
        }
        ledger[g.ID] = g
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return ledger, nil
}

// SetPresence flips one guest's presence flag.  The guest must belong to
// the given reservation; sql.ErrNoRows is returned otherwise so handlers
// can answer 404.
func (r *GuestRepo) SetPresence(ctx context.Context, reservationID, guestID uint64, presente bool) error {
    const q = `UPDATE reservation_guests SET presente = ? WHERE id = ? AND reservation_id = ?`
    result, err := r.db.ExecContext(ctx, q, presente, guestID, reservationID)
    if err != nil {
        return err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // Distinguish "no such guest" from "flag already at the requested
        // value": an update to the current value also affects zero rows.
        const existsQ = `SELECT 1 FROM reservation_guests WHERE id = ? AND reservation_id = ?`
        var one int
        if err := r.db.QueryRowContext(ctx, existsQ, guestID, reservationID).Scan(&one); err != nil {
            return err
        }
    }
    return nil
}

// Delete removes a guest from a reservation's ledger.  sql.ErrNoRows is
// returned when the guest does not exist under the reservation.
func (r *GuestRepo) Delete(ctx context.Context, reservationID, guestID uint64) error {
    const q = `DELETE FROM reservation_guests WHERE id = ? AND reservation_id = ?`
    result, err := r.db.ExecContext(ctx, q, guestID, reservationID)
    if err != nil {
        return err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}
