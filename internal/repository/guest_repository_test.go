package repository

import (
    "context"
    "database/sql"
    "errors"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/go-sql-driver/mysql"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/moradaviva/amenity-reservation/internal/model"
)

func mysqlDupErr() error {
    return &mysql.MySQLError{Number: mysqlDuplicateEntry, Message: "Duplicate entry"}
}

func termFixture() model.TermAcceptance {
    return model.NewTermAcceptance("Ana Souza", "302", "123.456.789-00", time.Now())
}

func TestGuestAddStartsAbsent(t *testing.T) {
    db, mock := newMock(t)
    repo := NewGuestRepo(db)

    mock.ExpectExec("INSERT INTO reservation_guests").
        WithArgs(uint64(7), "Carla Mendes").
        WillReturnResult(sqlmock.NewResult(11, 1))

    g, err := repo.Add(context.Background(), 7, "Carla Mendes")
    require.NoError(t, err)
    assert.Equal(t, uint64(11), g.ID)
    assert.False(t, g.Presente)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuestLedgerIsKeyedByID(t *testing.T) {
    db, mock := newMock(t)
    repo := NewGuestRepo(db)

    rows := sqlmock.NewRows([]string{"id", "nome", "presente"}).
        AddRow(3, "Carla", true).
        AddRow(1, "Diego", false).
        AddRow(2, "Elisa", true)
    mock.ExpectQuery("SELECT id, nome, presente FROM reservation_guests").
        WithArgs(uint64(7)).
        WillReturnRows(rows)

    ledger, err := repo.LedgerByReservation(context.Background(), 7)
    require.NoError(t, err)
    require.Len(t, ledger, 3)
    assert.Equal(t, "Diego", ledger[1].Nome)
    assert.True(t, ledger[3].Presente)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuestLedgerEmptyIsNotAnError(t *testing.T) {
    db, mock := newMock(t)
    repo := NewGuestRepo(db)

    mock.ExpectQuery("SELECT id, nome, presente FROM reservation_guests").
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "presente"}))

    ledger, err := repo.LedgerByReservation(context.Background(), 7)
    require.NoError(t, err)
    assert.Empty(t, ledger)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuestSetPresenceSameValueIsNoOp(t *testing.T) {
    db, mock := newMock(t)
    repo := NewGuestRepo(db)

    // Zero affected rows plus an existing guest means the flag already
    // held the requested value; that is not an error.
    mock.ExpectExec("UPDATE reservation_guests SET presente").
        WithArgs(true, uint64(3), uint64(7)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery("SELECT 1 FROM reservation_guests").
        WithArgs(uint64(3), uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

    require.NoError(t, repo.SetPresence(context.Background(), 7, 3, true))
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuestSetPresenceMissingGuest(t *testing.T) {
    db, mock := newMock(t)
    repo := NewGuestRepo(db)

    mock.ExpectExec("UPDATE reservation_guests SET presente").
        WithArgs(false, uint64(99), uint64(7)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery("SELECT 1 FROM reservation_guests").
        WithArgs(uint64(99), uint64(7)).
        WillReturnError(sql.ErrNoRows)

    err := repo.SetPresence(context.Background(), 7, 99, false)
    assert.True(t, errors.Is(err, sql.ErrNoRows))
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuestDeleteMissingGuest(t *testing.T) {
    db, mock := newMock(t)
    repo := NewGuestRepo(db)

    mock.ExpectExec("DELETE FROM reservation_guests").
        WithArgs(uint64(99), uint64(7)).
        WillReturnResult(sqlmock.NewResult(0, 0))

    err := repo.Delete(context.Background(), 7, 99)
    assert.True(t, errors.Is(err, sql.ErrNoRows))
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTermSubmitIsOneTime(t *testing.T) {
    db, mock := newMock(t)
    repo := NewTermRepo(db)

    mock.ExpectExec("INSERT INTO reservation_terms").
        WillReturnError(mysqlDupErr())

    err := repo.Submit(context.Background(), 7, termFixture())
    assert.True(t, errors.Is(err, ErrTermAlreadySigned))
    assert.NoError(t, mock.ExpectationsWereMet())
}
