// Package email sends transactional mail through the Resend HTTP API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/kavya5cloud/moc/internal/model"
)

const defaultBaseURL = "https://api.resend.com"

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("email: not configured")

// Options configures a Client.
type Options struct {
	APIKey     string
	From       string
	BaseURL    string // used by tests
	HTTPClient *http.Client
}

// Client sends mail.
type Client struct {
	opts Options
	http *http.Client
}

// NewClient returns a Client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{opts: opts, http: hc}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.opts.APIKey != "" }

var orderTemplate = template.Must(template.New("order").Parse(`<h1>MOCA Gandhinagar - Order Confirmation</h1>
<p>Dear {{.CustomerName}},</p>
<p>Thank you for your order #{{.ID}} from MOCA Gandhinagar!</p>
<p>Here are your order details:</p>
<ul>
{{- range .Items}}
<li>{{.Name}} (x{{.Quantity}}) - &#8377;{{.LineTotal}}</li>
{{- end}}
</ul>
<p>Total Amount: &#8377;{{.TotalAmount}}</p>
<p>Status: {{.Status}}</p>
<p>We appreciate your support!</p>
<p>The MOCA Gandhinagar Team</p>
`))

// RenderOrderConfirmation returns the subject and HTML body of the order
// confirmation mail.
func RenderOrderConfirmation(o model.ShopOrder) (subject, html string, err error) {
	var buf bytes.Buffer
	if err := orderTemplate.Execute(&buf, o); err != nil {
		return "", "", errors.Wrap(err, "email: render order")
	}
	return "Your MOCA Gandhinagar Order Confirmation #" + o.ID, buf.String(), nil
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendResult is the provider's answer to an accepted message.
type SendResult struct {
	ID string `json:"id"`
}

// SendOrderConfirmation mails the order summary to the customer.
func (c *Client) SendOrderConfirmation(ctx context.Context, o model.ShopOrder) (SendResult, error) {
	if !c.Configured() {
		return SendResult{}, ErrNotConfigured
	}
	subject, html, err := RenderOrderConfirmation(o)
	if err != nil {
		return SendResult{}, err
	}
	body, err := json.Marshal(sendRequest{From: c.opts.From, To: []string{o.Email}, Subject: subject, HTML: html})
	if err != nil {
		return SendResult{}, errors.Wrap(err, "email: encode")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return SendResult{}, errors.Wrap(err, "email: build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return SendResult{}, errors.Wrap(err, "email: send")
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode/100 != 2 {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &e)
		return SendResult{}, errors.Errorf("email: provider answered %d: %s", resp.StatusCode, e.Message)
	}
	var out SendResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return SendResult{}, errors.Wrap(err, "email: decode response")
	}
	return out, nil
}

// MailOrder sends the confirmation and drops the provider id, which lets
// the client serve as the queue consumer's mailer.
func (c *Client) MailOrder(ctx context.Context, o model.ShopOrder) error {
	_, err := c.SendOrderConfirmation(ctx, o)
	return err
}
