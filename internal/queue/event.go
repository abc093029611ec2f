// Package queue defines message payloads exchanged over the message broker
// and the consumer that turns them into customer e-mail.
package queue

import (
	"time"

	"github.com/kavya5cloud/moc/internal/model"
)

// OrderQueueName is the durable queue carrying order confirmations.
const OrderQueueName = "order.confirmed"

// OrderConfirmedEvent is published after a shop order was stored.  It
// carries the whole order so the mail consumer never has to read the
// store.
type OrderConfirmedEvent struct {
	Order       model.ShopOrder `json:"order"`
	ConfirmedAt string          `json:"confirmed_at"`
}

// NewOrderConfirmedEvent stamps an order with the current UTC time.
func NewOrderConfirmedEvent(o model.ShopOrder) OrderConfirmedEvent {
	return OrderConfirmedEvent{Order: o, ConfirmedAt: time.Now().UTC().Format(time.RFC3339)}
}
