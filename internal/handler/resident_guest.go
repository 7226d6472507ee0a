package handler

import (
    "database/sql"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/moradaviva/amenity-reservation/internal/booking"
)

// AddGuest handles POST /v1/reservations/:id/guests.  Guests are created
// with the presence flag unset; only the gatehouse flips it later.
func (h *ResidentHandler) AddGuest(c echo.Context) error {
    res, errResp := h.loadOwned(c)
    if res == nil {
        return errResp
    }
    var body struct {
        Nome string `json:"nome"`
    }
    if err := c.Bind(&body); err != nil || body.Nome == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "nome is required"})
    }
    guest, err := h.Guests.Add(c.Request().Context(), res.ID, body.Nome)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add guest"})
    }
    return c.JSON(http.StatusCreated, guest)
}

// ListGuests handles GET /v1/reservations/:id/guests.  The ledger is
// returned keyed by guest id together with the current present count,
// recomputed from the flags on every call.
func (h *ResidentHandler) ListGuests(c echo.Context) error {
    res, errResp := h.loadOwned(c)
    if res == nil {
        return errResp
    }
    ledger, err := h.Guests.LedgerByReservation(c.Request().Context(), res.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "convidados": ledger,
        "presentes":  booking.CountPresent(ledger),
    })
}

// DeleteGuest handles DELETE /v1/reservations/:id/guests/:guestID.
func (h *ResidentHandler) DeleteGuest(c echo.Context) error {
    res, errResp := h.loadOwned(c)
    if res == nil {
        return errResp
    }
    guestID, err := pathID(c, "guestID")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guest id"})
    }
    if err := h.Guests.Delete(c.Request().Context(), res.ID, guestID); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "guest not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to remove guest"})
    }
    return c.NoContent(http.StatusNoContent)
}
