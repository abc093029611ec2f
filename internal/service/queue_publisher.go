// Package service provides functions to publish domain events to RabbitMQ.
// Errors are logged and returned to allow callers to ignore failures without
// interrupting the main request flow.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/kavya5cloud/moc/internal/model"
	q "github.com/kavya5cloud/moc/internal/queue"
)

// PublishOrderConfirmed publishes an OrderConfirmedEvent to the
// "order.confirmed" queue.  Each call dials its own connection, which is
// plenty for the order volume of a museum shop.  Messages are marked as
// persistent.
func PublishOrderConfirmed(ctx context.Context, url string, event q.OrderConfirmedEvent) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return errors.Wrap(err, "rabbitmq: dial")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "rabbitmq: channel open")
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		q.OrderQueueName, // name
		true,             // durable
		false,            // autoDelete
		false,            // exclusive
		false,            // noWait
		nil,              // args
	); err != nil {
		return errors.Wrap(err, "rabbitmq: queue declare")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "rabbitmq: marshal event")
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		MessageId:    event.Order.ID,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",               // default exchange
		q.OrderQueueName, // routing key = queue name
		false,            // mandatory
		false,            // immediate
		pub,
	); err != nil {
		return errors.Wrap(err, "rabbitmq: publish")
	}
	return nil
}

// OrderPublisher hands saved shop orders to the mail queue.  It satisfies
// repository.OrderNotifier.
type OrderPublisher struct {
	url string
	log zerolog.Logger
}

// NewOrderPublisher returns a publisher for the broker at url.
func NewOrderPublisher(url string, log zerolog.Logger) *OrderPublisher {
	return &OrderPublisher{url: url, log: log.With().Str("component", "order-publisher").Logger()}
}

// NotifyOrderConfirmed publishes the order.  Failures are logged and
// returned; the caller decides whether to care.
func (p *OrderPublisher) NotifyOrderConfirmed(ctx context.Context, o model.ShopOrder) error {
	if err := PublishOrderConfirmed(ctx, p.url, q.NewOrderConfirmedEvent(o)); err != nil {
		p.log.Warn().Err(err).Str("order_id", o.ID).Msg("order confirmation not queued")
		return err
	}
	p.log.Debug().Str("order_id", o.ID).Msg("order confirmation queued")
	return nil
}
