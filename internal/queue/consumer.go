package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one decoded job from the queue. A non-nil error marks
// the job as failed in the logs; the message is acked either way, because
// every job this system queues is best-effort by contract.
type Handler interface {
	Handle(ctx context.Context, job string, payload json.RawMessage) error
}

// Consumer reads jobs from a durable queue and hands them to a Handler on a
// small worker pool. Messages are acked manually after handling.
type Consumer struct {
	conn        *amqp.Connection
	queueName   string
	concurrency int
	handler     Handler
	logger      *slog.Logger

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewConsumer creates a Consumer; Start must be called to begin consuming.
func NewConsumer(conn *amqp.Connection, queueName string, concurrency int, handler Handler, logger *slog.Logger) *Consumer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Consumer{
		conn:        conn,
		queueName:   queueName,
		concurrency: concurrency,
		handler:     handler,
		logger:      logger,
		stop:        make(chan struct{}),
	}
}

// Start declares the queue and blocks consuming messages until Stop is
// called or ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("queue: opening consumer channel: %w", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(c.queueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue: declaring queue %q: %w", c.queueName, err)
	}

	// Cap in-flight messages at the worker count.
	if err := ch.Qos(c.concurrency, 0, false); err != nil {
		return fmt.Errorf("queue: setting QoS: %w", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"welcome-email-worker", // consumer tag
		false,                  // auto-ack off, we ack after handling
		false,                  // exclusive
		false,                  // no-local
		false,                  // no-wait
		nil,                    // args
	)
	if err != nil {
		return fmt.Errorf("queue: registering consumer: %w", err)
	}

	c.logger.Info("consumer started",
		slog.String("queue", q.Name),
		slog.Int("concurrency", c.concurrency),
	)

	c.wg.Add(c.concurrency)
	for i := 0; i < c.concurrency; i++ {
		go c.work(ctx, msgs)
	}

	select {
	case <-ctx.Done():
	case <-c.stop:
	}
	c.wg.Wait()
	c.logger.Info("consumer stopped")
	return nil
}

// Stop asks the workers to finish their in-flight messages and return.
func (c *Consumer) Stop() {
	close(c.stop)
}

func (c *Consumer) work(ctx context.Context, msgs <-chan amqp.Delivery) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case d, ok := <-msgs:
			if !ok {
				return
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	var env envelope
	if err := json.Unmarshal(d.Body, &env); err != nil {
		c.logger.Error("discarding undecodable message",
			slog.Uint64("delivery_tag", d.DeliveryTag),
			slog.String("error", err.Error()),
		)
		_ = d.Ack(false)
		return
	}

	if err := c.handler.Handle(ctx, env.Job, env.Payload); err != nil {
		c.logger.Error("job failed",
			slog.String("job", env.Job),
			slog.String("error", err.Error()),
		)
	}

	// Ack regardless of the handler outcome: these jobs are best-effort and
	// a poison message must not redeliver forever.
	if err := d.Ack(false); err != nil {
		c.logger.Error("ack failed", slog.String("error", err.Error()))
	}
}
