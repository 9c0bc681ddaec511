package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"booking-service/internal/pkg/config"
	"booking-service/internal/usecase/notify"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler decides what happens to one delivery.
type Handler func(ctx context.Context, body []byte) notify.Disposition

type Consumer struct {
	conn     *amqp.Connection
	queue    string
	prefetch int
	logger   *slog.Logger
}

func NewRabbitConsumer(cfg config.RabbitMQConfig, logger *slog.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(cfg.BuildURL())
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := DeclareQueue(ch, cfg.Queue); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &Consumer{
		conn:     conn,
		queue:    cfg.Queue,
		prefetch: cfg.Prefetch,
		logger:   logger,
	}, nil
}

// Start consumes until ctx is done or the broker closes the channel.
func (c *Consumer) Start(ctx context.Context, handle Handler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume queue: %w", err)
	}

	c.logger.Info("consumer started", "queue", c.queue, "prefetch", c.prefetch)
	return Drain(ctx, msgs, handle, c.logger)
}

func (c *Consumer) Close() error {
	return c.conn.Close()
}

// Drain feeds deliveries to handle and settles each one according to the result.
// A closed delivery channel ends the loop with an error so the process can restart.
func Drain(ctx context.Context, msgs <-chan amqp.Delivery, handle Handler, logger *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("delivery channel closed")
			}
			settle(msg, handle(ctx, msg.Body), logger)
		}
	}
}

func settle(msg amqp.Delivery, d notify.Disposition, logger *slog.Logger) {
	var err error
	switch d {
	case notify.Ack:
		err = msg.Ack(false)
	case notify.Requeue:
		err = msg.Nack(false, true)
	default:
		err = msg.Nack(false, false)
	}
	if err != nil {
		logger.Error("failed to settle delivery",
			"delivery_tag", msg.DeliveryTag,
			"disposition", d.String(),
			"error", err.Error())
	}
}
