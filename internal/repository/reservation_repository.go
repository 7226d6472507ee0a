package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/go-sql-driver/mysql"

    "github.com/moradaviva/amenity-reservation/internal/booking"
    "github.com/moradaviva/amenity-reservation/internal/model"
)

// mysqlDuplicateEntry is the server error number for a unique key
// violation, used to map the slot uniqueness backstop onto the conflict
// result.
const mysqlDuplicateEntry = 1062

// ReservationRepo provides persistence for amenity/move reservations.
// Guest ledger entries and the term record live in their own
// repositories but hang off the reservations table with ON DELETE
// CASCADE, so removing a reservation removes its whole subtree in one
// statement.  All timestamp columns are stored in UTC.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions
// spanning several repositories.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = `id, tipo, nome, cpf, apartamento, id_morador, data_evento, data_criacao, criado_por`

// scanReservation reads one reservations row in column order.
func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
    var res model.Reservation
    var criadoPor sql.NullString
    if err := row.Scan(&res.ID, &res.Tipo, &res.Nome, &res.CPF, &res.Apartamento,
        &res.IDMorador, &res.DataEvento, &res.DataCriacao, &criadoPor); err != nil {
        return model.Reservation{}, err
    }
    if criadoPor.Valid {
        res.CriadoPor = criadoPor.String
    }
    return res, nil
}

// Create persists a candidate reservation, enforcing the one-slot-per-
// (category, calendar date) invariant atomically.  The conflict check
// and the insert run inside a single transaction: the slot row range is
// locked with SELECT ... FOR UPDATE before the insert, so two concurrent
// creates for the same slot serialize instead of both passing the check.
// A UNIQUE KEY (tipo_norm, event_day) backs the lock up; a duplicate-key
// error is mapped onto the same conflict result.
//
// On admit the generated ID and the creation timestamp are populated on
// res.  On conflict a *booking.ConflictError naming the blocking
// reservation is returned and nothing is written.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
    tipoNorm := model.NormalizeCategory(res.Tipo)
    eventDay := model.DateOnly(res.DataEvento)

    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    // Lock the candidate slot.  When a row exists the conflict is
    // reported with its full record; when none exists InnoDB holds a gap
    // lock on the unique key range until commit, closing the
    // check-then-act window.
    const slotQ = `SELECT ` + reservationColumns + `
                   FROM reservations
                   WHERE tipo_norm = ? AND event_day = ?
                   FOR UPDATE`
    existing, err := scanReservation(tx.QueryRowContext(ctx, slotQ, tipoNorm, eventDay))
    if err == nil {
        return &booking.ConflictError{Conflicting: existing}
    }
    if !errors.Is(err, sql.ErrNoRows) {
        return err
    }

    res.DataCriacao = time.Now().UTC()
    var criadoPor any
    if res.CriadoPor != "" {
        criadoPor = res.CriadoPor
    }
    const insQ = `INSERT INTO reservations
                  (tipo, tipo_norm, nome, cpf, apartamento, id_morador, data_evento, event_day, data_criacao, criado_por)
                  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    result, err := tx.ExecContext(ctx, insQ,
        res.Tipo, tipoNorm, res.Nome, res.CPF, res.Apartamento,
        res.IDMorador, res.DataEvento.UTC(), eventDay, res.DataCriacao, criadoPor)
    if err != nil {
        var me *mysql.MySQLError
        if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
            // Lost the race to a concurrent create; surface the winner.
            if winner, err2 := r.findBySlot(ctx, tipoNorm, eventDay); err2 == nil {
                return &booking.ConflictError{Conflicting: *winner}
            }
            return &booking.ConflictError{Conflicting: model.Reservation{
                Tipo:       res.Tipo,
                DataEvento: eventDay,
            }}
        }
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// findBySlot loads the reservation occupying a normalized slot, outside
// of any transaction.  Used to report the winner after a duplicate-key
// race.
func (r *ReservationRepo) findBySlot(ctx context.Context, tipoNorm string, eventDay time.Time) (*model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE tipo_norm = ? AND event_day = ?`
    res, err := scanReservation(r.db.QueryRowContext(ctx, q, tipoNorm, eventDay))
    if err != nil {
        return nil, err
    }
    return &res, nil
}

// GetByID returns one reservation.  sql.ErrNoRows is returned when the
// id does not exist.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
    res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        return nil, err
    }
    return &res, nil
}

// ListByApartment returns all reservations booked for an apartment,
// newest event first.  An empty slice is returned when none exist.
func (r *ReservationRepo) ListByApartment(ctx context.Context, apartamento string) ([]model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + `
               FROM reservations
               WHERE apartamento = ?
               ORDER BY data_evento DESC`
    return r.list(ctx, q, apartamento)
}

// ListByDay returns the reservations whose event falls on the given
// calendar day (the gatehouse day sheet).
func (r *ReservationRepo) ListByDay(ctx context.Context, day time.Time) ([]model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + `
               FROM reservations
               WHERE event_day = ?
               ORDER BY data_evento ASC`
    return r.list(ctx, q, model.DateOnly(day))
}

// ListAll returns every reservation, newest event first.  Used by the
// administrator report.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + `
               FROM reservations
               ORDER BY data_evento DESC`
    return r.list(ctx, q)
}

func (r *ReservationRepo) list(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0)
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, res)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Delete cancels a reservation.  The cancellation is recorded in the
// audit table and the reservation row is removed in the same
// transaction; guest ledger entries and the term record disappear with
// it through the foreign keys' ON DELETE CASCADE.  sql.ErrNoRows is
// returned when the reservation does not exist.  There is no soft
// delete and no recovery.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64, cancelledBy string) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? FOR UPDATE`
    res, err := scanReservation(tx.QueryRowContext(ctx, q, id))
    if err != nil {
        return err
    }

    const auditQ = `INSERT INTO reservation_cancellations
                    (reservation_id, tipo, event_day, apartamento, cancelled_by, cancelled_at)
                    VALUES (?, ?, ?, ?, ?, ?)`
    if _, err := tx.ExecContext(ctx, auditQ,
        res.ID, res.Tipo, res.EventDay(), res.Apartamento, cancelledBy, time.Now().UTC()); err != nil {
        return err
    }

    if _, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
