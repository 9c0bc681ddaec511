package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"booking-service/internal/pkg/config"
	"booking-service/internal/usecase/notify"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitPublisher sends messages to a durable queue through the default exchange
// and waits for the broker's publisher confirm. The connection is opened on first
// use and reopened after any failure. Dialing never holds the lock and never
// outlives the caller's context.
type RabbitPublisher struct {
	url     string
	queue   string
	timeout time.Duration

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

var _ notify.Broker = (*RabbitPublisher)(nil)

func NewRabbitPublisher(cfg config.RabbitMQConfig) *RabbitPublisher {
	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &RabbitPublisher{
		url:     cfg.BuildURL(),
		queue:   cfg.Queue,
		timeout: timeout,
	}
}

func (p *RabbitPublisher) Publish(ctx context.Context, messageID string, body []byte) error {
	ch, err := p.channel(ctx)
	if err != nil {
		return err
	}

	confirm, err := ch.PublishWithDeferredConfirmWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    messageID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.discard(ch)
		return fmt.Errorf("publish: %w", err)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		p.discard(ch)
		return fmt.Errorf("wait for confirm: %w", err)
	}
	if !acked {
		return fmt.Errorf("broker nacked message %s", messageID)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn, p.ch = nil, nil
	return err
}

// channel returns the shared confirm-mode channel, connecting when there is none.
func (p *RabbitPublisher) channel(ctx context.Context) (*amqp.Channel, error) {
	if ch := p.current(); ch != nil {
		return ch, nil
	}

	conn, ch, err := p.connect(ctx)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// another caller connected first
	if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		_ = conn.Close()
		return p.ch, nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = conn, ch
	slog.Info("rabbitmq publisher connected", "queue", p.queue)
	return ch, nil
}

func (p *RabbitPublisher) current() *amqp.Channel {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		return p.ch
	}
	return nil
}

// discard drops ch if it is still the shared channel so the next publish redials.
func (p *RabbitPublisher) discard(ch *amqp.Channel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != ch {
		return
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}

type dialResult struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	err  error
}

// connect opens a connection and a confirm-mode channel within ctx's deadline,
// capped by the publish timeout. A result that arrives after ctx ends is closed.
func (p *RabbitPublisher) connect(ctx context.Context) (*amqp.Connection, *amqp.Channel, error) {
	budget := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < budget {
			budget = left
		}
	}
	if budget <= 0 {
		return nil, nil, fmt.Errorf("connect rabbitmq: %w", context.DeadlineExceeded)
	}

	done := make(chan dialResult, 1)
	go func() {
		conn, ch, err := p.open(budget)
		done <- dialResult{conn: conn, ch: ch, err: err}
	}()

	select {
	case res := <-done:
		return res.conn, res.ch, res.err
	case <-ctx.Done():
		go func() {
			if res := <-done; res.conn != nil {
				_ = res.conn.Close()
			}
		}()
		return nil, nil, fmt.Errorf("connect rabbitmq: %w", ctx.Err())
	}
}

func (p *RabbitPublisher) open(timeout time.Duration) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	if err := DeclareQueue(ch, p.queue); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	if err := ch.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("enable confirms: %w", err)
	}
	return conn, ch, nil
}

// DeclareQueue makes sure the durable queue exists. Publisher and consumer declare it identically.
func DeclareQueue(ch *amqp.Channel, queue string) error {
	if _, err := ch.QueueDeclare(
		queue,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	return nil
}
