package notify

import (
	"context"
	"log/slog"

	"booking-service/internal/domain/notification"
	"booking-service/internal/pkg/metrics"
)

// Disposition tells the consumer what to do with a delivery.
type Disposition int

const (
	Ack Disposition = iota
	// Requeue returns the message to the queue for another try.
	Requeue
	// Discard drops a message that can never be processed.
	Discard
)

func (d Disposition) String() string {
	switch d {
	case Ack:
		return "ack"
	case Requeue:
		return "requeue"
	case Discard:
		return "discard"
	default:
		return "unknown"
	}
}

// Deduper remembers which notifications were already delivered.
type Deduper interface {
	// Acquire returns false when key was claimed before.
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Notifier delivers a notification to the user.
type Notifier interface {
	Notify(ctx context.Context, ev notification.Event) error
}

// Processor handles one queue message. Redeliveries of an already delivered
// event are acknowledged without notifying twice.
type Processor struct {
	deduper  Deduper
	notifier Notifier
	metrics  *metrics.Metrics
}

func NewProcessor(deduper Deduper, notifier Notifier, m *metrics.Metrics) *Processor {
	return &Processor{deduper: deduper, notifier: notifier, metrics: m}
}

func (p *Processor) Handle(ctx context.Context, body []byte) Disposition {
	ev, err := notification.Decode(body)
	if err != nil {
		slog.Warn("discarding malformed notification", "error", err.Error(), "size", len(body))
		p.count("unknown", "malformed")
		return Discard
	}

	key := ev.DedupeKey()
	logger := slog.With("booking_id", ev.BookingID.String(), "event_type", string(ev.EventType))

	first, err := p.deduper.Acquire(ctx, key)
	if err != nil {
		logger.Error("dedupe store unavailable", "error", err.Error())
		p.count(string(ev.EventType), "dedupe_error")
		return Requeue
	}
	if !first {
		logger.Info("duplicate notification skipped")
		p.count(string(ev.EventType), "duplicate")
		return Ack
	}

	if err := p.notifier.Notify(ctx, ev); err != nil {
		logger.Warn("notification delivery failed", "error", err.Error())
		if rerr := p.deduper.Release(context.WithoutCancel(ctx), key); rerr != nil {
			logger.Error("failed to release dedupe key", "error", rerr.Error())
		}
		p.count(string(ev.EventType), "failed")
		return Requeue
	}

	p.count(string(ev.EventType), "delivered")
	return Ack
}

func (p *Processor) count(eventType, result string) {
	p.metrics.NotificationsConsumed.WithLabelValues(eventType, result).Inc()
}
