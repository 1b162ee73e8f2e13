package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/movie-catalog-browser/internal/queue"
)

// AMQPPublisher publishes search events to a durable RabbitMQ queue. Each
// publish dials its own connection; the console issues at most one search
// at a time, so there is nothing to pool.
type AMQPPublisher struct {
	url   string
	queue string
	log   *slog.Logger
}

// NewAMQPPublisher returns nil when url is empty, which disables publishing.
func NewAMQPPublisher(url, queue string, log *slog.Logger) *AMQPPublisher {
	if url == "" {
		return nil
	}
	if queue == "" {
		queue = q.SearchLoggedQueue
	}
	return &AMQPPublisher{url: url, queue: queue, log: log}
}

// PublishSearchLogged publishes event as a persistent JSON message. Any
// error is logged and returned so the caller can choose to ignore it.
func (p *AMQPPublisher) PublishSearchLogged(ctx context.Context, event q.SearchLoggedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("rabbitmq: dial failed", "err", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("rabbitmq: channel open failed", "err", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		p.log.Warn("rabbitmq: queue declare failed", "err", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.Warn("rabbitmq: marshal event failed", "err", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		p.log.Warn("rabbitmq: publish failed", "err", err)
		return err
	}
	return nil
}
