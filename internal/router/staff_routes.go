package router

import (
	"github.com/labstack/echo/v4"

	"github.com/kavya5cloud/moc/internal/handler"
	"github.com/kavya5cloud/moc/internal/middleware"
	"github.com/kavya5cloud/moc/internal/utils"
)

// RegisterStaff registers back office endpoints under /v1/staff.  All
// routes require a valid JWT carrying the STAFF role.
func RegisterStaff(e *echo.Echo, s *handler.StaffHandler, jwtSecret string) {
	g := e.Group(
		"/v1/staff",
		middleware.StaffAuth(jwtSecret),
		middleware.RequireRole(utils.RoleStaff),
	)

	// ---- Catalogue ----
	g.PUT("/exhibitions/:id", s.SaveExhibition)
	g.PUT("/collectables/:id", s.SaveCollectable)
	g.DELETE("/collectables/:id", s.DeleteCollectable)
	g.PUT("/assets", s.SaveAssets)

	// ---- Orders and bookings ----
	g.GET("/orders", s.ListOrders)
	g.PATCH("/orders/:id/status", s.UpdateOrderStatus)
	g.GET("/bookings", s.ListBookings)
	g.GET("/dashboard", s.Dashboard)

	// ---- Back office toggle ----
	g.GET("/mode", s.GetMode)
	g.PUT("/mode", s.SetMode)
}
