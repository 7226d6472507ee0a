package live

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestHubRoutesByReservation(t *testing.T) {
    h := NewHub()
    ch7, cancel7 := h.Subscribe(7)
    defer cancel7()
    ch8, cancel8 := h.Subscribe(8)
    defer cancel8()

    h.Publish(AttendanceUpdate{ReservationID: 7, PresentCount: 3})

    select {
    case u := <-ch7:
        assert.Equal(t, 3, u.PresentCount)
    default:
        t.Fatal("subscriber of reservation 7 got nothing")
    }
    select {
    case <-ch8:
        t.Fatal("update leaked to another reservation's subscriber")
    default:
    }
}

func TestHubFanOut(t *testing.T) {
    h := NewHub()
    a, cancelA := h.Subscribe(7)
    defer cancelA()
    b, cancelB := h.Subscribe(7)
    defer cancelB()

    h.Publish(AttendanceUpdate{ReservationID: 7, PresentCount: 12})

    for _, ch := range []<-chan AttendanceUpdate{a, b} {
        select {
        case u := <-ch:
            assert.Equal(t, 12, u.PresentCount)
        default:
            t.Fatal("every subscriber must see the snapshot")
        }
    }
}

func TestHubSlowSubscriberDoesNotBlockPublisher(t *testing.T) {
    h := NewHub()
    ch, cancel := h.Subscribe(7)
    defer cancel()

    // Overrun the channel buffer; Publish must never block.
    for i := 0; i < 20; i++ {
        h.Publish(AttendanceUpdate{ReservationID: 7, PresentCount: i})
    }
    // The buffered updates are the oldest ones; the rest were dropped.
    first := <-ch
    assert.Equal(t, 0, first.PresentCount)
}

func TestHubCancelClosesChannel(t *testing.T) {
    h := NewHub()
    ch, cancel := h.Subscribe(7)
    cancel()
    cancel() // idempotent

    _, open := <-ch
    require.False(t, open)

    // Publishing after cancel must not panic or deliver.
    h.Publish(AttendanceUpdate{ReservationID: 7, PresentCount: 1})
}
