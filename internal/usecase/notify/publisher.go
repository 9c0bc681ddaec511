package notify

import (
	"context"
	"log/slog"
	"time"

	"booking-service/internal/domain/notification"
	"booking-service/internal/infra/query"
	"booking-service/internal/pkg/clock"
	"booking-service/internal/pkg/config"
	"booking-service/internal/pkg/errs"
	"booking-service/internal/pkg/metrics"
	"booking-service/internal/usecase/shared"

	"github.com/cenkalti/backoff/v4"
)

// Broker hands one encoded message to the queue. A nil error means the broker accepted it.
type Broker interface {
	Publish(ctx context.Context, messageID string, body []byte) error
}

// Publisher delivers booking events with bounded retries. Events that still
// cannot be delivered are parked in the outbox when the fallback is enabled.
type Publisher struct {
	broker  Broker
	uow     shared.UnitOfWork
	clock   clock.Clock
	metrics *metrics.Metrics

	maxAttempts    int
	initialBackoff time.Duration
	publishTimeout time.Duration
	outboxEnabled  bool
}

var _ shared.EventPublisher = (*Publisher)(nil)

func NewPublisher(
	broker Broker,
	uow shared.UnitOfWork,
	clk clock.Clock,
	m *metrics.Metrics,
	mqCfg config.RabbitMQConfig,
	outboxCfg config.OutboxConfig,
) *Publisher {
	maxAttempts := mqCfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Publisher{
		broker:         broker,
		uow:            uow,
		clock:          clk,
		metrics:        m,
		maxAttempts:    maxAttempts,
		initialBackoff: mqCfg.InitialBackoff,
		publishTimeout: mqCfg.PublishTimeout,
		outboxEnabled:  outboxCfg.Enabled,
	}
}

func (p *Publisher) Publish(ctx context.Context, ev notification.Event) error {
	body, err := ev.Encode()
	if err != nil {
		return &shared.PublishError{BookingID: ev.BookingID, EventType: ev.EventType, Err: err}
	}

	attempts := 0
	op := func() error {
		attempts++
		pubCtx, cancel := context.WithTimeout(ctx, p.publishTimeout)
		defer cancel()
		return p.broker.Publish(pubCtx, ev.DedupeKey(), body)
	}
	notify := func(err error, wait time.Duration) {
		slog.Debug("retrying notification publish",
			"booking_id", ev.BookingID.String(),
			"event_type", string(ev.EventType),
			"attempt", attempts,
			"wait_ms", wait.Milliseconds(),
			"error", err.Error())
	}

	err = backoff.RetryNotify(op, p.policy(ctx), notify)
	if err == nil {
		p.metrics.NotificationsPublished.WithLabelValues(string(ev.EventType), "ok").Inc()
		return nil
	}

	p.metrics.NotificationsPublished.WithLabelValues(string(ev.EventType), "failed").Inc()
	perr := &shared.PublishError{
		BookingID: ev.BookingID,
		EventType: ev.EventType,
		Attempts:  attempts,
		Err:       err,
	}

	if p.outboxEnabled {
		p.park(ctx, ev, perr)
	}
	return perr
}

func (p *Publisher) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.initialBackoff
	b.MaxElapsedTime = 0
	// #nosec G115 -- maxAttempts >= 1
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.maxAttempts-1)), ctx)
}

// park stores the event for the outbox dispatcher. Failure here is only logged.
func (p *Publisher) park(ctx context.Context, ev notification.Event, perr *shared.PublishError) {
	cause := perr.Err.Error()
	// the request context may already be done; the row must still be written
	ctx = context.WithoutCancel(ctx)

	err := p.uow.WithDB(ctx, func(ctx context.Context, db query.DBTX) error {
		return p.uow.Outbox().Enqueue(ctx, db, ev, perr.Attempts, &cause, p.clock.Now())
	})
	if err != nil {
		slog.Error("failed to park notification in outbox",
			"booking_id", ev.BookingID.String(),
			"event_type", string(ev.EventType),
			"error", errs.Wrap(err, "outbox enqueue").Error())
		return
	}
	slog.Info("notification parked in outbox",
		"booking_id", ev.BookingID.String(),
		"event_type", string(ev.EventType),
		"attempts", perr.Attempts)
}
