package handler

import (
    "errors"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/moradaviva/amenity-reservation/internal/model"
)

// errNoIdentity is returned by identity helpers when middleware did not
// store the expected claim; handlers answer 401.
var errNoIdentity = errors.New("no identity in context")

// currentUserID extracts the authenticated resident/staff id stored by
// the JWT middleware under "user_id".
func currentUserID(c echo.Context) (string, error) {
    if s, ok := c.Get("user_id").(string); ok && s != "" {
        return s, nil
    }
    return "", errNoIdentity
}

// currentApartment extracts the resident's apartment claim; staff tokens
// carry none and get an empty string.
func currentApartment(c echo.Context) string {
    s, _ := c.Get("apartamento").(string)
    return s
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid id")
    }
    return id, nil
}

// parseEventDate accepts the event date either as a full RFC3339
// timestamp or as a bare yyyy-mm-dd day.  The conflict and lifecycle
// logic only ever looks at the date component anyway.
func parseEventDate(s string) (time.Time, error) {
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t.UTC(), nil
    }
    t, err := time.Parse("2006-01-02", s)
    if err != nil {
        return time.Time{}, err
    }
    return t.UTC(), nil
}

// ownsReservation reports whether the authenticated resident may act on
// a reservation: either the slot was booked under their resident id or
// it belongs to their apartment (the gatehouse books on behalf with the
// resident's apartment but its own operator id).
func ownsReservation(res *model.Reservation, userID, apartamento string) bool {
    if res.IDMorador == userID {
        return true
    }
    return apartamento != "" && res.Apartamento == apartamento
}

// validCategory reports whether a submitted category normalizes to one
// of the closed set.  The store keeps the original spelling; the engine
// refuses spellings outside the set before any store call.
func validCategory(tipo string) bool {
    switch model.NormalizeCategory(tipo) {
    case model.NormalizeCategory(model.CategoryMove), model.NormalizeCategory(model.CategoryEvent):
        return true
    }
    return false
}
