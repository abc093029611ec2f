package router

import (
	"github.com/labstack/echo/v4"

	"github.com/kavya5cloud/moc/internal/handler"
)

// RegisterProxy registers the third-party proxies under /api.  The paths
// match what the storefront already calls.  Only the curator chat is
// throttled; the webhook must accept every gateway retry.
func RegisterProxy(e *echo.Echo, p *handler.ProxyHandler, limit echo.MiddlewareFunc) {
	g := e.Group("/api")
	g.POST("/create-payment-session", p.CreatePaymentSession)
	g.POST("/payment-webhook", p.PaymentWebhook)
	g.POST("/send-order-email", p.SendOrderEmail)
	if limit != nil {
		g.POST("/curator-chat", p.CuratorChat, limit)
	} else {
		g.POST("/curator-chat", p.CuratorChat)
	}
}
