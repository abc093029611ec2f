package config

import (
	"os"
	"time"
)

// PaymentConfig holds the Cashfree credentials.  Empty credentials leave
// payment sessions disabled.
type PaymentConfig struct {
	ClientID      string
	ClientSecret  string
	Environment   string // "sandbox" or "production"
	WebhookSecret string // empty skips webhook signature checks
	ReturnURL     string // order status page, "{order_id}" is substituted
}

// LoadPaymentConfig reads CASHFREE_* variables.
func LoadPaymentConfig() PaymentConfig {
	return PaymentConfig{
		ClientID:      os.Getenv("CASHFREE_APP_ID"),
		ClientSecret:  os.Getenv("CASHFREE_SECRET_KEY"),
		Environment:   envStr("CASHFREE_ENV", "sandbox"),
		WebhookSecret: os.Getenv("CASHFREE_WEBHOOK_SECRET"),
		ReturnURL:     envStr("CASHFREE_RETURN_URL", "http://localhost:5173/order-status/{order_id}"),
	}
}

// EmailConfig holds the transactional mail API settings.
type EmailConfig struct {
	APIKey string
	From   string
}

// LoadEmailConfig reads RESEND_API_KEY and EMAIL_FROM.
func LoadEmailConfig() EmailConfig {
	return EmailConfig{
		APIKey: os.Getenv("RESEND_API_KEY"),
		From:   envStr("EMAIL_FROM", "MOCA Gandhinagar <onboarding@resend.dev>"),
	}
}

// CuratorConfig holds the generative model settings of the curator chat.
type CuratorConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// LoadCuratorConfig reads GEMINI_* variables.
func LoadCuratorConfig() CuratorConfig {
	return CuratorConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Model:   envStr("GEMINI_MODEL", "gemini-2.0-flash"),
		Timeout: envDur("GEMINI_TIMEOUT", 10*time.Second),
	}
}

// QueueConfig holds the message broker location.
type QueueConfig struct {
	URL     string
	Enabled bool
}

// LoadQueueConfig reads RABBITMQ_URL (or AMQP_URL).  The broker is only
// used when one of them is set.
func LoadQueueConfig() QueueConfig {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	return QueueConfig{URL: url, Enabled: url != ""}
}
