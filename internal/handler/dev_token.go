package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/moradaviva/amenity-reservation/internal/middleware"
    "github.com/moradaviva/amenity-reservation/internal/utils"
)

// DevToken returns a handler that mints access tokens for local
// development, where the suite's identity service is not running.  The
// route is only registered when APP_ENV is "dev".
func DevToken(secret string, ttlMin int) echo.HandlerFunc {
    return func(c echo.Context) error {
        var body struct {
            UserID      string `json:"userId"`
            Role        string `json:"role"`
            Apartamento string `json:"apartamento"`
        }
        if err := c.Bind(&body); err != nil || body.UserID == "" {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "userId is required"})
        }
        switch body.Role {
        case middleware.RoleResident, middleware.RoleGatehouse, middleware.RoleAdmin:
        default:
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
        }
        tok, err := utils.NewAccessToken(secret, body.UserID, body.Role, body.Apartamento, ttlMin)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to sign token"})
        }
        return c.JSON(http.StatusOK, echo.Map{
            "access_token": tok.Token,
            "expires_at":   tok.Exp,
        })
    }
}
