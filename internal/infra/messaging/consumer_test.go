//go:build unit

package messaging

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"booking-service/internal/usecase/notify"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type settlement struct {
	tag     uint64
	acked   bool
	requeue bool
}

type recordingAcknowledger struct {
	mu      sync.Mutex
	settled []settlement
}

func (a *recordingAcknowledger) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settled = append(a.settled, settlement{tag: tag, acked: true})
	return nil
}

func (a *recordingAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settled = append(a.settled, settlement{tag: tag, requeue: requeue})
	return nil
}

func (a *recordingAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func (a *recordingAcknowledger) snapshot() []settlement {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]settlement(nil), a.settled...)
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestDrainSettlesByDisposition(t *testing.T) {
	defer goleak.VerifyNone(t)

	ack := &recordingAcknowledger{}
	msgs := make(chan amqp.Delivery, 3)
	msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte("ack")}
	msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte("requeue")}
	msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: []byte("discard")}
	close(msgs)

	handle := func(_ context.Context, body []byte) notify.Disposition {
		switch string(body) {
		case "ack":
			return notify.Ack
		case "requeue":
			return notify.Requeue
		default:
			return notify.Discard
		}
	}

	err := Drain(context.Background(), msgs, handle, discardLogger)

	require.Error(t, err, "closed channel must surface")
	assert.Equal(t, []settlement{
		{tag: 1, acked: true},
		{tag: 2, requeue: true},
		{tag: 3, requeue: false},
	}, ack.snapshot())
}

func TestDrainStopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	msgs := make(chan amqp.Delivery)
	done := make(chan error, 1)

	go func() {
		done <- Drain(ctx, msgs, func(context.Context, []byte) notify.Disposition { return notify.Ack }, discardLogger)
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("drain did not stop after cancel")
	}
}
