package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/kavya5cloud/moc/internal/handler"
)

// RegisterRoutes registers non-authenticated infrastructure routes.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the staff login.  The passcode exchange is the
// only unauthenticated staff route.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	e.POST("/v1/staff/login", a.StaffLogin)
}

// RegisterPublic registers browse endpoints served from the reactive
// snapshot, plus the change stream.  No JWT or role middleware applies.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, ev *handler.EventsHandler) {
	e.GET("/v1/status", p.Status)
	e.GET("/v1/assets", p.GetAssets)
	e.GET("/v1/exhibitions", p.GetExhibitions)
	e.GET("/v1/artworks", p.GetArtworks)
	e.GET("/v1/events", p.GetEvents)
	e.GET("/v1/collectables", p.GetCollectables)
	e.GET("/v1/gallery", p.GetGallery)
	e.GET("/v1/reviews", p.GetReviews)
	// order status page, reached from the payment return URL
	e.GET("/v1/orders/:id", p.GetOrder)

	e.GET("/v1/events/stream", ev.Stream)
}
