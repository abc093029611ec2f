// Package payment creates hosted checkout sessions with Cashfree and
// verifies its payment webhooks.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	sandboxBaseURL    = "https://sandbox.cashfree.com/pg"
	productionBaseURL = "https://api.cashfree.com/pg"
	apiVersion        = "2023-08-01"
	currency          = "INR"
)

var (
	// ErrNotConfigured is returned when the gateway credentials are missing.
	ErrNotConfigured = errors.New("payment: gateway not configured")

	// ErrBadSignature is returned by VerifyWebhook for a forged or
	// mangled notification.
	ErrBadSignature = errors.New("payment: webhook signature mismatch")
)

// GatewayError is a non-2xx answer from the gateway.
type GatewayError struct {
	Status  int
	Message string
}

func (e *GatewayError) Error() string {
	return "payment: gateway answered " + http.StatusText(e.Status) + ": " + e.Message
}

// SessionRequest carries what the checkout page collects.
type SessionRequest struct {
	OrderID       string
	Amount        float64
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ReturnURL     string
}

// Session identifies a created checkout session.
type Session struct {
	PaymentSessionID string `json:"paymentSessionId"`
	OrderID          string `json:"orderId"`
}

// Options configures a Client.
type Options struct {
	ClientID      string
	ClientSecret  string
	Environment   string // "production" selects the live API, anything else the sandbox
	WebhookSecret string
	NotifyURL     string
	BaseURL       string // overrides Environment, used by tests
	HTTPClient    *http.Client
}

// Client talks to the Cashfree PG API.
type Client struct {
	opts    Options
	baseURL string
	http    *http.Client
}

// NewClient returns a Client. A client without credentials still verifies
// webhooks but refuses to create sessions.
func NewClient(opts Options) *Client {
	base := opts.BaseURL
	if base == "" {
		base = sandboxBaseURL
		if strings.EqualFold(opts.Environment, "production") {
			base = productionBaseURL
		}
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{opts: opts, baseURL: strings.TrimRight(base, "/"), http: hc}
}

// Configured reports whether sessions can be created.
func (c *Client) Configured() bool {
	return c.opts.ClientID != "" && c.opts.ClientSecret != ""
}

type customerDetails struct {
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
}

type orderMeta struct {
	ReturnURL string `json:"return_url"`
	NotifyURL string `json:"notify_url,omitempty"`
}

type createOrderRequest struct {
	OrderID         string          `json:"order_id"`
	OrderAmount     float64         `json:"order_amount"`
	OrderCurrency   string          `json:"order_currency"`
	CustomerDetails customerDetails `json:"customer_details"`
	OrderMeta       orderMeta       `json:"order_meta"`
}

type createOrderResponse struct {
	OrderID          string `json:"order_id"`
	PaymentSessionID string `json:"payment_session_id"`
	Message          string `json:"message"`
}

// CreateSession registers the order with the gateway and returns the
// session id the browser SDK needs to open checkout.
func (c *Client) CreateSession(ctx context.Context, r SessionRequest) (Session, error) {
	if !c.Configured() {
		return Session{}, ErrNotConfigured
	}
	body, err := json.Marshal(createOrderRequest{
		OrderID:       r.OrderID,
		OrderAmount:   r.Amount,
		OrderCurrency: currency,
		CustomerDetails: customerDetails{
			CustomerID:    r.CustomerEmail,
			CustomerName:  r.CustomerName,
			CustomerEmail: r.CustomerEmail,
			CustomerPhone: r.CustomerPhone,
		},
		OrderMeta: orderMeta{ReturnURL: r.ReturnURL, NotifyURL: c.opts.NotifyURL},
	})
	if err != nil {
		return Session{}, errors.Wrap(err, "payment: encode order")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return Session{}, errors.Wrap(err, "payment: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", c.opts.ClientID)
	req.Header.Set("x-client-secret", c.opts.ClientSecret)
	req.Header.Set("x-api-version", apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return Session{}, errors.Wrap(err, "payment: create order")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Session{}, errors.Wrap(err, "payment: read response")
	}
	var out createOrderResponse
	_ = json.Unmarshal(raw, &out)
	if resp.StatusCode/100 != 2 {
		msg := out.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return Session{}, &GatewayError{Status: resp.StatusCode, Message: msg}
	}
	if out.PaymentSessionID == "" {
		return Session{}, errors.New("payment: gateway returned no session id")
	}
	return Session{PaymentSessionID: out.PaymentSessionID, OrderID: out.OrderID}, nil
}

// VerifyWebhook checks the x-webhook-signature header: base64 of
// HMAC-SHA256 over timestamp+body keyed with the webhook secret. Without
// a webhook secret every notification is accepted.
func (c *Client) VerifyWebhook(body []byte, timestamp, signature string) error {
	if c.opts.WebhookSecret == "" {
		return nil
	}
	want := Sign(c.opts.WebhookSecret, body, timestamp)
	if !hmac.Equal([]byte(want), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}

// Sign produces the signature VerifyWebhook expects. It exists for tests
// and local tooling that replays notifications.
func Sign(secret string, body []byte, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
