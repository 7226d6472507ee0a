package queue

import (
    "context"
    "fmt"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/moradaviva/amenity-reservation/internal/booking"
    "github.com/moradaviva/amenity-reservation/internal/live"
    "github.com/moradaviva/amenity-reservation/internal/model"
    "github.com/moradaviva/amenity-reservation/internal/repository"
)

func ledgerRows(total, present int) *sqlmock.Rows {
    rows := sqlmock.NewRows([]string{"id", "nome", "presente"})
    for i := 1; i <= total; i++ {
        rows.AddRow(i, fmt.Sprintf("Convidado %d", i), i <= present)
    }
    return rows
}

func newConsumer(t *testing.T) (*PresenceConsumer, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    return &PresenceConsumer{
        Guests:        repository.NewGuestRepo(db),
        Hub:           live.NewHub(),
        FeeApplicable: booking.EventOnlyFee,
    }, mock
}

func TestRecomputeCountsLedgerNotEvent(t *testing.T) {
    pc, mock := newConsumer(t)
    // 20 invited, 12 checked in: the count comes from the ledger scan.
    mock.ExpectQuery("SELECT id, nome, presente FROM reservation_guests").
        WithArgs(uint64(7)).
        WillReturnRows(ledgerRows(20, 12))

    update, err := pc.Recompute(context.Background(), 7, model.CategoryEvent)
    require.NoError(t, err)
    assert.Equal(t, 12, update.PresentCount)
    assert.Equal(t, 12, update.AttendeeCount)
    require.NotNil(t, update.FeeCents)
    assert.Equal(t, uint32(booking.FeeTierSmallCents), *update.FeeCents)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecomputeFeeTierFollowsAttendeeCount(t *testing.T) {
    pc, mock := newConsumer(t)
    mock.ExpectQuery("SELECT id, nome, presente FROM reservation_guests").
        WithArgs(uint64(8)).
        WillReturnRows(ledgerRows(40, 40))

    update, err := pc.Recompute(context.Background(), 8, model.CategoryEvent)
    require.NoError(t, err)
    assert.Equal(t, 40, update.PresentCount)
    require.NotNil(t, update.FeeCents)
    assert.Equal(t, uint32(booking.FeeTierLargeCents), *update.FeeCents)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecomputeMoveHasNoFee(t *testing.T) {
    pc, mock := newConsumer(t)
    mock.ExpectQuery("SELECT id, nome, presente FROM reservation_guests").
        WithArgs(uint64(9)).
        WillReturnRows(ledgerRows(3, 2))

    update, err := pc.Recompute(context.Background(), 9, model.CategoryMove)
    require.NoError(t, err)
    assert.Equal(t, 2, update.PresentCount)
    assert.Nil(t, update.FeeCents)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecomputeIncludeRequesterShiftsTier(t *testing.T) {
    pc, mock := newConsumer(t)
    pc.IncludeRequester = true
    // 15 present plus the requester crosses into the middle tier.
    mock.ExpectQuery("SELECT id, nome, presente FROM reservation_guests").
        WithArgs(uint64(10)).
        WillReturnRows(ledgerRows(15, 15))

    update, err := pc.Recompute(context.Background(), 10, model.CategoryEvent)
    require.NoError(t, err)
    assert.Equal(t, 15, update.PresentCount)
    assert.Equal(t, 16, update.AttendeeCount)
    require.NotNil(t, update.FeeCents)
    assert.Equal(t, uint32(booking.FeeTierMediumCents), *update.FeeCents)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecomputeBroadcastsOnHub(t *testing.T) {
    pc, mock := newConsumer(t)
    ch, cancel := pc.Hub.Subscribe(7)
    defer cancel()

    mock.ExpectQuery("SELECT id, nome, presente FROM reservation_guests").
        WithArgs(uint64(7)).
        WillReturnRows(ledgerRows(5, 4))

    _, err := pc.Recompute(context.Background(), 7, model.CategoryEvent)
    require.NoError(t, err)

    select {
    case got := <-ch:
        assert.Equal(t, uint64(7), got.ReservationID)
        assert.Equal(t, 4, got.PresentCount)
    default:
        t.Fatal("expected an update on the hub subscription")
    }
}
