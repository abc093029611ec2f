package router

import (
	"github.com/labstack/echo/v4"

	"github.com/kavya5cloud/moc/internal/handler"
)

// RegisterVisitor registers the anonymous write flows.  limit throttles
// them per client; pass nil to leave them unthrottled.
func RegisterVisitor(e *echo.Echo, v *handler.VisitorHandler, limit echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if limit != nil {
		g.Use(limit)
	}
	g.POST("/orders", v.PlaceOrder)
	g.POST("/bookings", v.CreateBooking)
	g.POST("/reviews", v.AddReview)
}
