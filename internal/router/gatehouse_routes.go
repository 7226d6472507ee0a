package router

import (
    "github.com/labstack/echo/v4"

    "github.com/moradaviva/amenity-reservation/internal/handler"
    "github.com/moradaviva/amenity-reservation/internal/middleware"
)

// RegisterGatehouse registers the concierge surface under /v1/gatehouse.
// All routes require a valid JWT with the GATEHOUSE role.  The gatehouse
// books on behalf of residents, reads the day sheet and checks guests in.
func RegisterGatehouse(e *echo.Echo, h *handler.GatehouseHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
    g := e.Group(
        "/v1/gatehouse",
        append([]echo.MiddlewareFunc{
            middleware.JWTAuth(jwtSecret),
            middleware.RequireRole(middleware.RoleGatehouse),
        }, extra...)...,
    )
    g.POST("/reservations", h.CreateReservation)
    g.GET("/reservations", h.DaySheet)
    g.GET("/reservations/:id/guests", h.Ledger)
    g.PUT("/reservations/:id/guests/:guestID/presence", h.SetPresence)
}
