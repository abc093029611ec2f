package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/kavya5cloud/moc/internal/curator"
	"github.com/kavya5cloud/moc/internal/email"
	"github.com/kavya5cloud/moc/internal/model"
	"github.com/kavya5cloud/moc/internal/payment"
)

// PaymentGateway is the part of the payment client the proxy uses.
type PaymentGateway interface {
	CreateSession(ctx context.Context, r payment.SessionRequest) (payment.Session, error)
	VerifyWebhook(body []byte, timestamp, signature string) error
}

// Mailer sends transactional e-mail.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, o model.ShopOrder) (email.SendResult, error)
}

// Curator answers visitor questions.
type Curator interface {
	Reply(ctx context.Context, message string, history []curator.Turn) string
}

// StatusUpdater applies payment outcomes to stored orders.
type StatusUpdater interface {
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error
}

// ProxyHandler fronts the third-party services the browser may not call
// directly because doing so would leak credentials.
type ProxyHandler struct {
	Payments PaymentGateway
	Mail     Mailer
	Curator  Curator
	Orders   StatusUpdater
	Log      zerolog.Logger
}

// ----- DTOs -----

type paymentSessionReq struct {
	OrderID       string  `json:"orderId"`
	Amount        float64 `json:"amount"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone string  `json:"customerPhone"`
	ReturnURL     string  `json:"returnUrl"`
}

type webhookReq struct {
	OrderID        string  `json:"orderId"`
	OrderAmount    float64 `json:"orderAmount"`
	PaymentStatus  string  `json:"paymentStatus"`
	PaymentMessage string  `json:"paymentMessage"`
	PaymentTime    string  `json:"paymentTime"`
}

type orderEmailReq struct {
	Order *model.ShopOrder `json:"order"`
}

type curatorReq struct {
	Message string         `json:"message"`
	History []curator.Turn `json:"history"`
}

// CreatePaymentSession opens a hosted checkout session for an order.
func (h *ProxyHandler) CreatePaymentSession(c echo.Context) error {
	var req paymentSessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if req.OrderID == "" || req.Amount <= 0 || req.CustomerName == "" || req.CustomerEmail == "" || req.ReturnURL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Missing required fields: orderId, amount, customerName, customerEmail, returnUrl",
		})
	}
	sess, err := h.Payments.CreateSession(c.Request().Context(), payment.SessionRequest{
		OrderID:       req.OrderID,
		Amount:        req.Amount,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		ReturnURL:     req.ReturnURL,
	})
	if err != nil {
		var gw *payment.GatewayError
		switch {
		case errors.Is(err, payment.ErrNotConfigured):
			h.Log.Error().Msg("payment gateway credentials missing")
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"message": "Payment gateway configuration error. Please contact support.",
			})
		case errors.As(err, &gw):
			h.Log.Error().Err(err).Str("order_id", req.OrderID).Msg("payment session rejected")
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"message": "Failed to create payment session",
				"error":   gw.Message,
			})
		default:
			h.Log.Error().Err(err).Str("order_id", req.OrderID).Msg("payment session failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
		}
	}
	return c.JSON(http.StatusOK, sess)
}

// PaymentWebhook receives gateway notifications.  Once the required fields
// are present it always answers 200 so the gateway stops retrying.
func (h *ProxyHandler) PaymentWebhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 1<<20))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := h.Payments.VerifyWebhook(body,
		c.Request().Header.Get("x-webhook-timestamp"),
		c.Request().Header.Get("x-webhook-signature")); err != nil {
		h.Log.Warn().Err(err).Msg("webhook signature rejected")
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid signature"})
	}
	var req webhookReq
	if err := json.Unmarshal(body, &req); err != nil || req.OrderID == "" || req.PaymentStatus == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing required fields"})
	}

	status := model.OrderPending
	if strings.EqualFold(req.PaymentStatus, "SUCCESS") {
		status = model.OrderFulfilled
	}
	if err := h.Orders.UpdateOrderStatus(c.Request().Context(), req.OrderID, status); err != nil {
		h.Log.Error().Err(err).Str("order_id", req.OrderID).Msg("webhook status update failed")
		return c.JSON(http.StatusOK, echo.Map{"message": "Webhook received but processing failed"})
	}
	h.Log.Info().
		Str("order_id", req.OrderID).
		Str("payment_status", req.PaymentStatus).
		Str("status", string(status)).
		Msg("payment webhook applied")
	return c.JSON(http.StatusOK, echo.Map{"message": "Webhook processed successfully"})
}

// SendOrderEmail mails an order confirmation.
func (h *ProxyHandler) SendOrderEmail(c echo.Context) error {
	var req orderEmailReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	o := req.Order
	if o == nil || o.CustomerName == "" || o.Email == "" || len(o.Items) == 0 || o.TotalAmount == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing required order details."})
	}
	res, err := h.Mail.SendOrderConfirmation(c.Request().Context(), *o)
	if err != nil {
		h.Log.Error().Err(err).Str("order_id", o.ID).Msg("order email failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to send email"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Email sent successfully", "id": res.ID})
}

// CuratorChat relays a visitor question.  Upstream failures become an
// apology text so the chat widget never shows an error state.
func (h *ProxyHandler) CuratorChat(c echo.Context) error {
	var req curatorReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Message is required"})
	}
	text := h.Curator.Reply(c.Request().Context(), req.Message, req.History)
	return c.JSON(http.StatusOK, echo.Map{"text": text})
}
