package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/moradaviva/amenity-reservation/internal/booking"
    "github.com/moradaviva/amenity-reservation/internal/live"
    "github.com/moradaviva/amenity-reservation/internal/model"
    "github.com/moradaviva/amenity-reservation/internal/queue"
    "github.com/moradaviva/amenity-reservation/internal/repository"
    "github.com/moradaviva/amenity-reservation/internal/termgate"
)

// ResidentHandler serves the self-service surface: booking a slot,
// listing the apartment's reservations split by temporal state, managing
// the guest ledger, the term-of-responsibility flow and the live
// attendance stream.  JWT authentication and role validation are assumed
// to have been performed by middleware.
type ResidentHandler struct {
    Reservations *repository.ReservationRepo
    Guests       *repository.GuestRepo
    Terms        *repository.TermRepo
    Gates        *termgate.Registry
    Attendance   *queue.PresenceConsumer
    Hub          *live.Hub
}

// NewResidentHandler constructs a ResidentHandler.  All repository
// dependencies must be non-nil.
func NewResidentHandler(res *repository.ReservationRepo, guests *repository.GuestRepo, terms *repository.TermRepo, gates *termgate.Registry, attendance *queue.PresenceConsumer, hub *live.Hub) *ResidentHandler {
    if res == nil || guests == nil || terms == nil || gates == nil {
        panic("nil dependency passed to NewResidentHandler")
    }
    return &ResidentHandler{
        Reservations: res,
        Guests:       guests,
        Terms:        terms,
        Gates:        gates,
        Attendance:   attendance,
        Hub:          hub,
    }
}

// reservationView is a reservation as returned to clients: the persisted
// record plus the derived temporal state.  The state is computed per
// request; it is never stored.
type reservationView struct {
    model.Reservation
    Estado model.TemporalState `json:"estado"`
}

func viewOf(res model.Reservation, ref time.Time) reservationView {
    return reservationView{Reservation: res, Estado: res.TemporalStateAt(ref)}
}

// createReservationRequest is the body shared by the resident and
// gatehouse create endpoints.  Field names follow the store contract.
type createReservationRequest struct {
    Tipo        string `json:"tipo"`
    Nome        string `json:"nome"`
    CPF         string `json:"cpf"`
    Apartamento string `json:"apartamento"`
    DataEvento  string `json:"dataEvento"`
}

// CreateReservation handles POST /v1/reservations.  Validation happens
// before any store call; the conflict check runs against the day's
// snapshot and again atomically inside the repository create, so two
// concurrent requests for the same (category, date) slot cannot both
// land.  On conflict the response names the blocking category and date
// and nothing is written.
func (h *ResidentHandler) CreateReservation(c echo.Context) error {
    userID, err := currentUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body createReservationRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    apartamento := currentApartment(c)
    if apartamento == "" {
        apartamento = body.Apartamento
    }
    return h.create(c, body, model.Reservation{
        Nome:        body.Nome,
        CPF:         body.CPF,
        Apartamento: apartamento,
        IDMorador:   userID,
    })
}

// create finishes a create request after the caller filled in the
// requester identity.  Shared with the gatehouse surface.
func (h *ResidentHandler) create(c echo.Context, body createReservationRequest, res model.Reservation) error {
    if body.Tipo == "" || body.Nome == "" || body.CPF == "" || res.Apartamento == "" || body.DataEvento == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "tipo, nome, cpf, apartamento and dataEvento are required"})
    }
    if !validCategory(body.Tipo) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown reservation category"})
    }
    eventDate, err := parseEventDate(body.DataEvento)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dataEvento"})
    }
    res.Tipo = body.Tipo
    res.DataEvento = eventDate

    ctx := c.Request().Context()
    // Fast-fail against the day's current snapshot before opening the
    // transaction; the repository repeats the check under lock.
    sameDay, err := h.Reservations.ListByDay(ctx, eventDate)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if err := booking.CheckConflict(booking.Candidate{Tipo: res.Tipo, DataEvento: eventDate}, sameDay); err != nil {
        return conflictResponse(c, err)
    }

    if err := h.Reservations.Create(ctx, &res); err != nil {
        if conflict := new(booking.ConflictError); errors.As(err, &conflict) {
            return conflictResponse(c, conflict)
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
    }
    return c.JSON(http.StatusCreated, viewOf(res, time.Now()))
}

// conflictResponse renders a booking conflict as 409 naming the occupied
// slot so the user can pick another date or category.
func conflictResponse(c echo.Context, err error) error {
    var conflict *booking.ConflictError
    if !errors.As(err, &conflict) {
        return c.JSON(http.StatusConflict, echo.Map{"error": "slot already reserved"})
    }
    return c.JSON(http.StatusConflict, echo.Map{
        "error": "slot already reserved",
        "conflito": echo.Map{
            "tipo":       conflict.Conflicting.Tipo,
            "dataEvento": conflict.Conflicting.EventDay().Format("2006-01-02"),
        },
    })
}

// ListReservations handles GET /v1/reservations?scope=upcoming|past.  It
// returns the apartment's reservations with their derived temporal
// state, optionally filtered to one bucket.  Without a scope the full
// list is returned.
func (h *ResidentHandler) ListReservations(c echo.Context) error {
    if _, err := currentUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    apartamento := currentApartment(c)
    if apartamento == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "token carries no apartment"})
    }
    all, err := h.Reservations.ListByApartment(c.Request().Context(), apartamento)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    now := time.Now()
    scope := c.QueryParam("scope")
    views := make([]reservationView, 0, len(all))
    for _, res := range all {
        v := viewOf(res, now)
        switch scope {
        case "upcoming":
            if v.Estado != model.StateUpcoming {
                continue
            }
        case "past":
            if v.Estado != model.StatePast {
                continue
            }
        }
        views = append(views, v)
    }
    return c.JSON(http.StatusOK, views)
}

// GetReservation handles GET /v1/reservations/:id for the owning
// resident.
func (h *ResidentHandler) GetReservation(c echo.Context) error {
    res, errResp := h.loadOwned(c)
    if res == nil {
        return errResp
    }
    return c.JSON(http.StatusOK, viewOf(*res, time.Now()))
}

// DeleteReservation handles DELETE /v1/reservations/:id.  Cancellation
// is immediate and non-recoverable: the audit row is written and the
// reservation row disappears together with its guest ledger and term
// record through the storage cascade.
func (h *ResidentHandler) DeleteReservation(c echo.Context) error {
    res, errResp := h.loadOwned(c)
    if res == nil {
        return errResp
    }
    userID, _ := currentUserID(c)
    if err := h.Reservations.Delete(c.Request().Context(), res.ID, userID); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel reservation"})
    }
    // Any open reading session for the removed reservation is torn down
    // with it so its ticker does not keep firing.
    h.Gates.Discard(userID, res.ID)
    return c.JSON(http.StatusOK, echo.Map{"cancelled": res.ID, "estado": model.StateCancelled})
}

// loadOwned fetches the path reservation and enforces ownership.  On
// failure it writes the error response and returns a nil reservation;
// callers must return the second value in that case.
func (h *ResidentHandler) loadOwned(c echo.Context) (*model.Reservation, error) {
    userID, err := currentUserID(c)
    if err != nil {
        return nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    res, err := h.Reservations.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if !ownsReservation(res, userID, currentApartment(c)) {
        return nil, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    return res, nil
}
