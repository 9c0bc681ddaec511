//go:build e2e

package messaging

import (
	"context"
	"testing"
	"time"

	"booking-service/internal/pkg/config"

	"github.com/docker/go-connections/nat"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRabbitMQ(t *testing.T) config.RabbitMQConfig {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3.13-alpine",
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort(nat.Port("5672/tcp")),
				wait.ForLog("Server startup complete"),
			).WithStartupTimeout(2 * time.Minute),
			Labels: map[string]string{"purpose": "e2e-tests"},
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start rabbitmq container")
	t.Cleanup(func() {
		_ = c.Terminate(context.Background())
	})

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5672/tcp")
	require.NoError(t, err)

	return config.RabbitMQConfig{
		Host:           host,
		Port:           port.Port(),
		User:           "guest",
		Password:       "guest",
		VHost:          "/",
		Queue:          "notifications-test",
		PublishTimeout: 5 * time.Second,
	}
}

// nextMessage pulls one message from the queue with a separate connection.
func nextMessage(t *testing.T, cfg config.RabbitMQConfig) amqp.Delivery {
	t.Helper()
	conn, err := amqp.Dial(cfg.BuildURL())
	require.NoError(t, err)
	defer conn.Close()
	ch, err := conn.Channel()
	require.NoError(t, err)

	var msg amqp.Delivery
	require.Eventually(t, func() bool {
		var ok bool
		msg, ok, err = ch.Get(cfg.Queue, true)
		return err == nil && ok
	}, 5*time.Second, 50*time.Millisecond)
	return msg
}

func TestRabbitPublisher(t *testing.T) {
	cfg := startRabbitMQ(t)
	p := NewRabbitPublisher(cfg)
	t.Cleanup(func() { _ = p.Close() })

	publish := func(id, body string) error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.PublishTimeout)
		defer cancel()
		return p.Publish(ctx, id, []byte(body))
	}

	t.Run("confirmed publish lands on the durable queue", func(t *testing.T) {
		require.NoError(t, publish("b1:CONFIRMED", `{"bookingId":"b1"}`))

		msg := nextMessage(t, cfg)
		assert.Equal(t, "b1:CONFIRMED", msg.MessageId)
		assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
		assert.Equal(t, "application/json", msg.ContentType)
		assert.JSONEq(t, `{"bookingId":"b1"}`, string(msg.Body))
	})

	t.Run("redials after Close", func(t *testing.T) {
		require.NoError(t, p.Close())
		require.NoError(t, publish("b2:CONFIRMED", `{"bookingId":"b2"}`))

		assert.Equal(t, "b2:CONFIRMED", nextMessage(t, cfg).MessageId)
	})

	t.Run("redials after the connection drops", func(t *testing.T) {
		require.NoError(t, publish("b3:CONFIRMED", `{}`))
		_ = nextMessage(t, cfg)

		p.mu.Lock()
		dropped := p.conn
		p.mu.Unlock()
		require.NotNil(t, dropped)
		require.NoError(t, dropped.Close())

		require.NoError(t, publish("b4:CANCELED", `{}`))
		assert.Equal(t, "b4:CANCELED", nextMessage(t, cfg).MessageId)

		p.mu.Lock()
		defer p.mu.Unlock()
		assert.NotSame(t, dropped, p.conn)
	})
}
