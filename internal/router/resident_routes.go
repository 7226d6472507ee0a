package router

import (
    "github.com/labstack/echo/v4"

    "github.com/moradaviva/amenity-reservation/internal/handler"
    "github.com/moradaviva/amenity-reservation/internal/middleware"
)

// RegisterResident registers the self-service surface under /v1.  All
// routes require a valid JWT with the RESIDENT role.  Residents book and
// cancel their apartment's slots, maintain guest lists and walk through
// the term-of-responsibility flow.
func RegisterResident(e *echo.Echo, h *handler.ResidentHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
    g := e.Group(
        "/v1",
        append([]echo.MiddlewareFunc{
            middleware.JWTAuth(jwtSecret),
            middleware.RequireRole(middleware.RoleResident),
        }, extra...)...,
    )
    g.POST("/reservations", h.CreateReservation)
    g.GET("/reservations", h.ListReservations)
    g.GET("/reservations/:id", h.GetReservation)
    g.DELETE("/reservations/:id", h.DeleteReservation)

    // Guest ledger of one reservation.
    g.POST("/reservations/:id/guests", h.AddGuest)
    g.GET("/reservations/:id/guests", h.ListGuests)
    g.DELETE("/reservations/:id/guests/:guestID", h.DeleteGuest)

    // Timed term-of-responsibility flow.
    g.POST("/reservations/:id/term/session", h.OpenTermSession)
    g.GET("/reservations/:id/term/session", h.TermSessionState)
    g.DELETE("/reservations/:id/term/session", h.DiscardTermSession)
    g.POST("/reservations/:id/term", h.SubmitTerm)
    g.GET("/reservations/:id/term", h.GetTerm)

    // Live attendance badge.  Registered for residents and the gatehouse
    // so both screens update as guests check in; the handler enforces
    // per-reservation ownership for residents.
    stream := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(middleware.RoleResident, middleware.RoleGatehouse),
    )
    stream.GET("/reservations/:id/attendance/stream", h.AttendanceStream)
}
