package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/moradaviva/amenity-reservation/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Load balancers and the suite's monitoring probe this endpoint to
    // verify that the service is up.
    e.GET("/healthz", handler.Health)
}

// RegisterDev registers development-only helpers.  The token mint stands
// in for the suite's identity service when running locally; it must
// never be registered outside the dev environment.
func RegisterDev(e *echo.Echo, jwtSecret string, accessTTLMin int) {
    e.POST("/v1/dev/token", handler.DevToken(jwtSecret, accessTTLMin))
}
