package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/go-sql-driver/mysql"

    "github.com/moradaviva/amenity-reservation/internal/model"
)

// TermRepo provides persistence for the term-of-responsibility record of
// a reservation.  At most one term exists per reservation; the write is
// one-time and the row is removed with the reservation by cascade.
type TermRepo struct {
    db *sql.DB
}

// NewTermRepo returns a new TermRepo bound to the given database.
func NewTermRepo(db *sql.DB) *TermRepo { return &TermRepo{db: db} }

// Submit writes the term record under a reservation.  The unique key on
// reservation_id makes the write one-time; a duplicate attempt returns
// ErrTermAlreadySigned and changes nothing, so the original signature is
// never overwritten.
func (r *TermRepo) Submit(ctx context.Context, reservationID uint64, t model.TermAcceptance) error {
    const q = `INSERT INTO reservation_terms
               (reservation_id, declaracao, cpf, data, horario, data_envio, nome, apartamento)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    _, err := r.db.ExecContext(ctx, q,
        reservationID, t.Declaracao, t.CPF, t.Data, t.Horario, t.DataEnvio, t.Nome, t.Apartamento)
    if err != nil {
        var me *mysql.MySQLError
        if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
            return ErrTermAlreadySigned
        }
        return err
    }
    return nil
}

// GetByReservation returns the signed term of a reservation.
// sql.ErrNoRows is returned when no term has been submitted yet.
func (r *TermRepo) GetByReservation(ctx context.Context, reservationID uint64) (*model.TermAcceptance, error) {
    const q = `SELECT declaracao, cpf, data, horario, data_envio, nome, apartamento
               FROM reservation_terms WHERE reservation_id = ?`
    var t model.TermAcceptance
    if err := r.db.QueryRowContext(ctx, q, reservationID).Scan(
        &t.Declaracao, &t.CPF, &t.Data, &t.Horario, &t.DataEnvio, &t.Nome, &t.Apartamento); err != nil {
        return nil, err
    }
    return &t, nil
}
