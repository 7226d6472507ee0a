package handler

import (
    "database/sql"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/moradaviva/amenity-reservation/internal/middleware"
)

// AttendanceStream handles GET /v1/reservations/:id/attendance/stream.
// It emits server-sent events with the recomputed attendance snapshot of
// one reservation: an initial snapshot on connect, then one event per
// update broadcast by the presence consumer.  Residents may only watch
// their own reservations; gatehouse staff may watch any.  The
// subscription is torn down when the client disconnects.
func (h *ResidentHandler) AttendanceStream(c echo.Context) error {
    userID, err := currentUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    res, err := h.Reservations.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    role, _ := c.Get("role").(string)
    if role != middleware.RoleGatehouse && !ownsReservation(res, userID, currentApartment(c)) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    if h.Hub == nil || h.Attendance == nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "live updates unavailable"})
    }

    updates, cancel := h.Hub.Subscribe(res.ID)
    defer cancel()

    w := c.Response()
    w.Header().Set(echo.HeaderContentType, "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("Connection", "keep-alive")
    w.WriteHeader(http.StatusOK)

    send := func(v any) error {
        payload, err := json.Marshal(v)
        if err != nil {
            return err
        }
        if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
            return err
        }
        w.Flush()
        return nil
    }

    // Initial snapshot so a client connecting mid-event sees the current
    // badge without waiting for the next check-in.
    snapshot, err := h.Attendance.CachedOrRecompute(c.Request().Context(), res.ID, res.Tipo)
    if err == nil {
        if err := send(snapshot); err != nil {
            return nil
        }
    }

    ctx := c.Request().Context()
    for {
        select {
        case <-ctx.Done():
            return nil
        case u, ok := <-updates:
            if !ok {
                return nil
            }
            if err := send(u); err != nil {
                return nil
            }
        }
    }
}
