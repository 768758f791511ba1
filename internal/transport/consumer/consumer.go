package consumer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/brewline/queue/internal/dal/rabbitmq"
	"github.com/brewline/queue/internal/service/models/event"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

// notifier is the live sync hub's surface the consumer needs.
type notifier interface {
	Notify(ctx context.Context, businessID int64)
}

// Consumer receives order-change events from RabbitMQ and triggers snapshot
// refreshes on the live sync hub.
type Consumer struct {
	client   *rabbitmq.Client
	notifier notifier
	queue    amqp.Queue
	stop     chan struct{}
	done     chan struct{}
}

// NewConsumer creates a new Consumer.
func NewConsumer(client *rabbitmq.Client, notifier notifier) *Consumer {
	queueName := viper.GetString("rabbitmq.queue")
	if queueName == "" {
		queueName = "order-events"
	}

	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       queueName,
		Durable:    true,
		AutoDelete: false,
		Exclusive:  false,
		NoWait:     false,
	})
	if err != nil {
		panic(err)
	}

	return &Consumer{
		client:   client,
		notifier: notifier,
		queue:    queue,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run starts consuming order-change events.
func (c *Consumer) Run(ctx context.Context) error {
	consumerTag := viper.GetString("rabbitmq.consumer_tag")
	if consumerTag == "" {
		consumerTag = "queue-svc"
	}

	msgs, err := c.client.Consume(rabbitmq.ConsumeConfig{
		Queue:    c.queue.Name,
		Consumer: consumerTag,
	})
	if err != nil {
		return err
	}

	slog.Info("Order events consumer started", "queue", c.queue.Name, "consumer_tag", consumerTag)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(16)

	go func() {
		for {
			select {
			case <-c.stop:
				slog.Info("Stopping order events consumer")
				close(c.done)

				return
			case msg, ok := <-msgs:
				if !ok {
					slog.Info("Order events channel closed")
					close(c.done)

					return
				}

				g.Go(func() error {
					return c.processMessage(gctx, msg)
				})
			}
		}
	}()

	<-c.done
	if err := g.Wait(); err != nil {
		slog.Error("Error processing order events", "error", err)
	}

	return nil
}

// processMessage handles a single order-change event.
func (c *Consumer) processMessage(ctx context.Context, msg amqp.Delivery) error {
	ctx, span := otel.Tracer("queue-svc").Start(ctx, "Consumer.processMessage")
	defer span.End()

	var changed event.OrderChanged
	if err := json.Unmarshal(msg.Body, &changed); err != nil {
		slog.Error("Failed to unmarshal order event", "error", err)
		// Malformed payload, drop without requeueing
		if err := msg.Nack(false, false); err != nil {
			slog.Error("Failed to nack message", "error", err)
		}

		return err
	}

	c.notifier.Notify(ctx, changed.BusinessID)

	if err := msg.Ack(false); err != nil {
		slog.Error("Failed to ack message", "error", err)

		return err
	}

	return nil
}

// Shutdown gracefully stops the consumer.
func (c *Consumer) Shutdown() error {
	slog.Info("Shutting down consumer")
	close(c.stop)

	timeout := viper.GetDuration("rabbitmq.shutdown_timeout")
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	// Wait for processing to finish with timeout. Run may never have
	// reached its receive loop, so the wait cannot be unconditional.
	select {
	case <-c.done:
		slog.Info("Consumer stopped successfully")
	case <-time.After(timeout):
		slog.Warn("Consumer shutdown timeout")
	}

	return nil
}
