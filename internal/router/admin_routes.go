package router

import (
    "github.com/labstack/echo/v4"

    "github.com/moradaviva/amenity-reservation/internal/handler"
    "github.com/moradaviva/amenity-reservation/internal/middleware"
)

// RegisterAdmin registers the administrator report under /v1/admin.  All
// routes require a valid JWT with the ADMIN role.  The report endpoints
// are read-only and sit behind the response cache middleware when one is
// provided.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string, cache echo.MiddlewareFunc, extra ...echo.MiddlewareFunc) {
    mws := []echo.MiddlewareFunc{
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(middleware.RoleAdmin),
    }
    if cache != nil {
        mws = append(mws, cache)
    }
    g := e.Group("/v1/admin", append(mws, extra...)...)
    g.GET("/reservations", h.ListReservations)
    g.GET("/reservations/:id/attendance", h.GetAttendance)
}
