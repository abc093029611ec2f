package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/kavya5cloud/moc/internal/model"
)

// OrderMailer sends the confirmation for one order.  email.Client
// satisfies it through MailOrder.
type OrderMailer interface {
	MailOrder(ctx context.Context, o model.ShopOrder) error
}

// StartOrderEmailConsumer connects to RabbitMQ, declares the order.confirmed
// queue (durable) and mails every confirmation it receives.  It runs a
// reconnect loop with exponential backoff and only returns once ctx is
// cancelled.  A message that cannot be handled is rejected without requeue
// so one bad message cannot wedge the queue.
func StartOrderEmailConsumer(ctx context.Context, url string, mailer OrderMailer, log zerolog.Logger) error {
	log = log.With().Str("component", "order-mail-consumer").Logger()
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("failed to dial broker")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = consumeLoop(ctx, conn, mailer, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Msg("consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, mailer OrderMailer, log zerolog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "channel open")
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		log.Warn().Err(err).Msg("set QoS failed")
	}
	if _, err := ch.QueueDeclare(OrderQueueName, true, false, false, false, nil); err != nil {
		return errors.Wrap(err, "queue declare")
	}
	msgs, err := ch.Consume(OrderQueueName, "", false, false, false, false, nil)
	if err != nil {
		return errors.Wrap(err, "queue consume")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := HandleOrderMessage(ctx, d.Body, mailer); err != nil {
				log.Error().Err(err).Msg("order mail failed")
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleOrderMessage decodes one delivery and mails the order in it.
func HandleOrderMessage(ctx context.Context, body []byte, mailer OrderMailer) error {
	var ev OrderConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return errors.Wrap(err, "unmarshal")
	}
	if ev.Order.ID == "" || ev.Order.Email == "" {
		return errors.New("order event without id or recipient")
	}
	mctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return errors.Wrapf(mailer.MailOrder(mctx, ev.Order), "mail order %s", ev.Order.ID)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
