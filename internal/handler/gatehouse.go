package handler

import (
    "database/sql"
    "errors"
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/moradaviva/amenity-reservation/internal/booking"
    "github.com/moradaviva/amenity-reservation/internal/model"
    "github.com/moradaviva/amenity-reservation/internal/queue"
    "github.com/moradaviva/amenity-reservation/internal/repository"
    queue_publisher "github.com/moradaviva/amenity-reservation/internal/service"
)

// GatehouseHandler serves the concierge surface: booking on behalf of a
// resident, the day sheet of arriving events/moves, and flipping guest
// presence flags at check-in.  Presence changes are published to the
// broker so every watching session sees the recount; delivery is
// best-effort because the count is always recomputable from the ledger.
type GatehouseHandler struct {
    Reservations *repository.ReservationRepo
    Guests       *repository.GuestRepo
    Attendance   *queue.PresenceConsumer
    Resident     *ResidentHandler // create flow is shared with the resident surface
}

// NewGatehouseHandler constructs a GatehouseHandler.
func NewGatehouseHandler(res *repository.ReservationRepo, guests *repository.GuestRepo, attendance *queue.PresenceConsumer, resident *ResidentHandler) *GatehouseHandler {
    if res == nil || guests == nil || resident == nil {
        panic("nil dependency passed to NewGatehouseHandler")
    }
    return &GatehouseHandler{Reservations: res, Guests: guests, Attendance: attendance, Resident: resident}
}

// CreateReservation handles POST /v1/gatehouse/reservations.  The slot
// is booked for the resident named in the body; the record is annotated
// with the gatehouse origin, which affects display only.
func (h *GatehouseHandler) CreateReservation(c echo.Context) error {
    operatorID, err := currentUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        createReservationRequest
        IDMorador string `json:"idMorador"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    idMorador := body.IDMorador
    if idMorador == "" {
        idMorador = operatorID
    }
    return h.Resident.create(c, body.createReservationRequest, model.Reservation{
        Nome:        body.Nome,
        CPF:         body.CPF,
        Apartamento: body.Apartamento,
        IDMorador:   idMorador,
        CriadoPor:   model.CreatedByGatehouse,
    })
}

// DaySheet handles GET /v1/gatehouse/reservations?date=yyyy-mm-dd.  It
// lists the reservations whose event falls on the given day (today when
// omitted) so the gatehouse knows which guest lists to expect.
func (h *GatehouseHandler) DaySheet(c echo.Context) error {
    day := time.Now()
    if s := c.QueryParam("date"); s != "" {
        parsed, err := time.Parse("2006-01-02", s)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
        }
        day = parsed
    }
    list, err := h.Reservations.ListByDay(c.Request().Context(), day)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    now := time.Now()
    views := make([]reservationView, 0, len(list))
    for _, res := range list {
        views = append(views, viewOf(res, now))
    }
    return c.JSON(http.StatusOK, views)
}

// Ledger handles GET /v1/gatehouse/reservations/:id/guests.  It returns
// the guest ledger keyed by guest id plus the live attendance snapshot.
func (h *GatehouseHandler) Ledger(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    ctx := c.Request().Context()
    res, err := h.Reservations.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    ledger, err := h.Guests.LedgerByReservation(ctx, res.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "reserva":    viewOf(*res, time.Now()),
        "convidados": ledger,
        "presentes":  booking.CountPresent(ledger),
    })
}

// SetPresence handles PUT
// /v1/gatehouse/reservations/:id/guests/:guestID/presence.  The flag is
// a leaf boolean: flipping it writes the one field and publishes a
// presence.changed event; the attendance count itself is never written
// anywhere, only recomputed downstream.
func (h *GatehouseHandler) SetPresence(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    guestID, err := pathID(c, "guestID")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guest id"})
    }
    var body struct {
        Presente *bool `json:"presente"`
    }
    if err := c.Bind(&body); err != nil || body.Presente == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "presente is required"})
    }
    ctx := c.Request().Context()
    res, err := h.Reservations.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if err := h.Guests.SetPresence(ctx, res.ID, guestID, *body.Presente); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "guest not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update presence"})
    }

    event := queue.PresenceChangedEvent{
        ReservationID: res.ID,
        Tipo:          res.Tipo,
        Apartamento:   res.Apartamento,
        GuestID:       guestID,
        Presente:      *body.Presente,
        OccurredAt:    time.Now().UTC().Format(time.RFC3339),
    }
    if err := queue_publisher.PublishPresenceChanged(ctx, event); err != nil {
        // The toggle itself succeeded; watchers recount on their next
        // read even when the broker is down.
        log.Printf("gatehouse: presence event not published for reservation %d: %v", res.ID, err)
        if h.Attendance != nil {
            if _, err := h.Attendance.Recompute(ctx, res.ID, res.Tipo); err != nil {
                log.Printf("gatehouse: fallback recompute failed: %v", err)
            }
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"id": guestID, "presente": *body.Presente})
}
