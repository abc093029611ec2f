package middleware

// identity.go holds helpers shared across middleware files.

import "github.com/labstack/echo/v4"

// sessionID returns the staff session set by StaffAuth, or "visitor" for
// anonymous requests.
func sessionID(c echo.Context) string {
	if v, ok := c.Get(ctxSessionID).(string); ok && v != "" {
		return v
	}
	return "visitor"
}

// clientIP returns the caller address as seen through proxies.
func clientIP(c echo.Context) string {
	if ip := c.RealIP(); ip != "" {
		return ip
	}
	return "unknown"
}
