package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	publishTimeout  = 10 * time.Second
	publishAttempts = 3
)

// envelope is the wire format of a queued job.
type envelope struct {
	Job     string          `json:"job"`
	Payload json.RawMessage `json:"payload"`
}

// RabbitMQ implements Dispatcher on a RabbitMQ queue.
//
// The queue is declared durable and messages are published persistent, so a
// broker restart does not lose accepted jobs. Redelivery beyond that is the
// broker's policy; this process neither waits for nor observes delivery.
type RabbitMQ struct {
	channel   *amqp.Channel
	queueName string
	logger    *slog.Logger
}

var _ Dispatcher = (*RabbitMQ)(nil)

// NewRabbitMQ opens a channel on conn and declares the durable queue.
// Queue parameters must match the consumer's declaration.
func NewRabbitMQ(conn *amqp.Connection, queueName string, logger *slog.Logger) (*RabbitMQ, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("queue: opening channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		ch.Close()
		return nil, fmt.Errorf("queue: declaring queue %q: %w", queueName, err)
	}

	return &RabbitMQ{channel: ch, queueName: queueName, logger: logger}, nil
}

// Close closes the underlying channel.
func (q *RabbitMQ) Close() error {
	return q.channel.Close()
}

// Enqueue serializes the job and publishes it to the queue, retrying a
// bounded number of times within the publish timeout.
func (q *RabbitMQ) Enqueue(ctx context.Context, job string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("queue: serializing %s payload: %w", job, err)
	}
	body, err := json.Marshal(envelope{Job: job, Payload: raw})
	if err != nil {
		return fmt.Errorf("queue: serializing %s envelope: %w", job, err)
	}

	if q.channel == nil {
		return errors.New("queue: channel not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	for attempt := 1; attempt <= publishAttempts; attempt++ {
		err = q.channel.PublishWithContext(ctx,
			"",          // default exchange
			q.queueName, // routing key = queue name
			false,       // mandatory
			false,       // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Timestamp:    time.Now(),
				Body:         body,
			},
		)
		if err == nil {
			return nil
		}
		q.logger.Warn("publish failed",
			slog.String("job", job),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("queue: publishing %s: %w", job, ctx.Err())
		case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
		}
	}

	return fmt.Errorf("queue: publishing %s after %d attempts: %w", job, publishAttempts, err)
}
