package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/moradaviva/amenity-reservation/internal/queue"
    "github.com/moradaviva/amenity-reservation/internal/repository"
)

// AdminHandler serves the administrator report: every reservation with
// its derived temporal state, attendance tally and billable fee.  The
// routes sit behind the Redis response cache because the report is read
// far more often than guests check in.
type AdminHandler struct {
    Reservations *repository.ReservationRepo
    Attendance   *queue.PresenceConsumer
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(res *repository.ReservationRepo, attendance *queue.PresenceConsumer) *AdminHandler {
    if res == nil || attendance == nil {
        panic("nil dependency passed to NewAdminHandler")
    }
    return &AdminHandler{Reservations: res, Attendance: attendance}
}

// reportRow is one reservation in the administrator report.  FeeCents is
// omitted for feeless categories (moves).
type reportRow struct {
    reservationView
    Presentes int     `json:"presentes"`
    FeeCents  *uint32 `json:"feeCents,omitempty"`
}

// ListReservations handles GET /v1/admin/reservations.  Attendance and
// fee are derived per row from the current ledger (or its cached badge),
// never read from a stored column.
func (a *AdminHandler) ListReservations(c echo.Context) error {
    ctx := c.Request().Context()
    all, err := a.Reservations.ListAll(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    now := time.Now()
    rows := make([]reportRow, 0, len(all))
    for _, res := range all {
        update, err := a.Attendance.CachedOrRecompute(ctx, res.ID, res.Tipo)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
        rows = append(rows, reportRow{
            reservationView: viewOf(res, now),
            Presentes:       update.PresentCount,
            FeeCents:        update.FeeCents,
        })
    }
    return c.JSON(http.StatusOK, rows)
}

// GetAttendance handles GET /v1/admin/reservations/:id/attendance,
// returning the current attendance snapshot and fee for one reservation.
func (a *AdminHandler) GetAttendance(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    ctx := c.Request().Context()
    res, err := a.Reservations.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    update, err := a.Attendance.Recompute(ctx, res.ID, res.Tipo)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, update)
}
