//go:build unit

package messaging

import (
	"context"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"booking-service/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// silentBroker accepts TCP connections and never answers the AMQP handshake.
type silentBroker struct {
	ln       net.Listener
	accepted atomic.Int64

	mu    sync.Mutex
	conns []net.Conn
}

func startSilentBroker(t *testing.T) *silentBroker {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	b := &silentBroker{ln: ln}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			b.accepted.Add(1)
			b.mu.Lock()
			b.conns = append(b.conns, conn)
			b.mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, c := range b.conns {
			_ = c.Close()
		}
	})
	return b
}

func (b *silentBroker) config(publishTimeout time.Duration) config.RabbitMQConfig {
	addr := b.ln.Addr().(*net.TCPAddr)
	return config.RabbitMQConfig{
		Host:           addr.IP.String(),
		Port:           strconv.Itoa(addr.Port),
		User:           "guest",
		Password:       "guest",
		VHost:          "/",
		Queue:          "notifications",
		PublishTimeout: publishTimeout,
	}
}

func TestRabbitPublisherUnresponsiveBroker(t *testing.T) {
	t.Run("gives up at the caller's deadline", func(t *testing.T) {
		broker := startSilentBroker(t)
		p := NewRabbitPublisher(broker.config(5 * time.Second))
		t.Cleanup(func() { _ = p.Close() })

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := p.Publish(ctx, "msg-1", []byte(`{}`))

		require.Error(t, err)
		assert.Less(t, time.Since(start), time.Second)
		assert.EqualValues(t, 1, broker.accepted.Load())
	})

	t.Run("publish timeout bounds a call without deadline", func(t *testing.T) {
		broker := startSilentBroker(t)
		p := NewRabbitPublisher(broker.config(150 * time.Millisecond))
		t.Cleanup(func() { _ = p.Close() })

		start := time.Now()
		err := p.Publish(context.Background(), "msg-1", []byte(`{}`))

		require.Error(t, err)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("concurrent publishes do not queue behind one dial", func(t *testing.T) {
		broker := startSilentBroker(t)
		p := NewRabbitPublisher(broker.config(5 * time.Second))
		t.Cleanup(func() { _ = p.Close() })

		const callers = 5
		var wg sync.WaitGroup
		errCh := make(chan error, callers)
		start := time.Now()
		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
				defer cancel()
				errCh <- p.Publish(ctx, "msg-"+strconv.Itoa(i), []byte(`{}`))
			}()
		}
		wg.Wait()
		close(errCh)

		// one after another would take callers × 300ms
		assert.Less(t, time.Since(start), time.Second)
		for err := range errCh {
			assert.Error(t, err)
		}
	})

	t.Run("expired context does not dial", func(t *testing.T) {
		broker := startSilentBroker(t)
		p := NewRabbitPublisher(broker.config(time.Second))
		t.Cleanup(func() { _ = p.Close() })

		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()

		err := p.Publish(ctx, "msg-1", []byte(`{}`))

		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Zero(t, broker.accepted.Load())
	})
}

func TestRabbitPublisherCloseWithoutConnection(t *testing.T) {
	p := NewRabbitPublisher(config.RabbitMQConfig{Host: "127.0.0.1", Port: "1", Queue: "notifications"})
	assert.NoError(t, p.Close())
}
