package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/kavya5cloud/moc/internal/utils"
)

// Context keys set by StaffAuth.
const (
	ctxSessionID = "session_id"
	ctxRole      = "role"
)

// StaffAuth returns an Echo middleware that validates a Bearer staff token
// and injects the token's subject and role claims into the request context.
// The provided secret must match the one used when issuing tokens.  Handlers
// behind it can read the claims via c.Get("session_id") and c.Get("role").
func StaffAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseStaffToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(ctxSessionID, claims["sub"])
			c.Set(ctxRole, claims["role"])
			return next(c)
		}
	}
}
