package middleware

// identity.go defines helpers shared across middleware files.  The rate
// limiter and the response cache both key on the caller's identity,
// which JWTAuth stores in the context as "user_id".

import "github.com/labstack/echo/v4"

// currentUserID returns the authenticated caller's identifier, or "anon"
// for unauthenticated requests so anonymous traffic shares one bucket
// per client address.
func currentUserID(c echo.Context) string {
    if s, ok := c.Get("user_id").(string); ok && s != "" {
        return s
    }
    return "anon"
}
