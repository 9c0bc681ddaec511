package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"booking-service/internal/infra/query"
	"booking-service/internal/pkg/clock"
	"booking-service/internal/pkg/config"
	"booking-service/internal/pkg/metrics"
	"booking-service/internal/usecase/shared"
)

const maxRetryDelay = time.Minute

// Dispatcher drains the notification outbox into the broker.
type Dispatcher struct {
	uow     shared.UnitOfWork
	broker  Broker
	clock   clock.Clock
	metrics *metrics.Metrics
	cfg     config.OutboxConfig

	publishTimeout time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewDispatcher(
	uow shared.UnitOfWork,
	broker Broker,
	clk clock.Clock,
	m *metrics.Metrics,
	cfg config.OutboxConfig,
	mqCfg config.RabbitMQConfig,
) *Dispatcher {
	return &Dispatcher{
		uow:            uow,
		broker:         broker,
		clock:          clk,
		metrics:        m,
		cfg:            cfg,
		publishTimeout: mqCfg.PublishTimeout,
	}
}

// Start runs the dispatch loop until Stop is called.
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.loop(ctx)
	}()
}

func (d *Dispatcher) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()
}

func (d *Dispatcher) loop(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()

	for {
		if _, err := d.DispatchOnce(ctx); err != nil && ctx.Err() == nil {
			slog.Error("outbox dispatch failed", "error", err.Error())
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// DispatchOnce claims one batch of due rows and tries each once. It returns the number delivered.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (int, error) {
	now := d.clock.Now()

	var batch []shared.OutboxMessage
	err := d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var derr error
		batch, derr = tx.Outbox().Claim(ctx, tx.DB(), d.cfg.BatchSize, now, now.Add(d.cfg.Lease))
		return derr
	})
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, msg := range batch {
		if ctx.Err() != nil {
			// unfinished rows are picked up again once their lease expires
			break
		}
		if d.deliver(ctx, msg) {
			sent++
		}
	}
	return sent, nil
}

func (d *Dispatcher) deliver(ctx context.Context, msg shared.OutboxMessage) bool {
	pubCtx, cancel := context.WithTimeout(ctx, d.publishTimeout)
	err := d.broker.Publish(pubCtx, msg.BookingID.String()+":"+msg.EventType, msg.Body)
	cancel()

	now := d.clock.Now()
	if err == nil {
		if merr := d.uow.WithDB(ctx, func(ctx context.Context, db query.DBTX) error {
			return d.uow.Outbox().MarkSent(ctx, db, msg.ID, now)
		}); merr != nil {
			// row stays leased and will be re-sent; consumers dedupe
			slog.Error("failed to mark outbox row sent", "outbox_id", msg.ID.String(), "error", merr.Error())
		}
		d.metrics.OutboxDispatched.WithLabelValues("sent").Inc()
		return true
	}

	attempts := msg.Attempts + 1
	giveUp := attempts >= d.cfg.MaxAttempts
	next := now.Add(retryDelay(attempts))

	if merr := d.uow.WithDB(ctx, func(ctx context.Context, db query.DBTX) error {
		return d.uow.Outbox().MarkFailed(ctx, db, msg.ID, err.Error(), next, giveUp, now)
	}); merr != nil {
		slog.Error("failed to reschedule outbox row", "outbox_id", msg.ID.String(), "error", merr.Error())
	}

	result := "retry"
	if giveUp {
		result = "failed"
		slog.Error("outbox row abandoned",
			"outbox_id", msg.ID.String(),
			"booking_id", msg.BookingID.String(),
			"event_type", msg.EventType,
			"attempts", attempts,
			"error", err.Error())
	} else {
		slog.Warn("outbox publish failed",
			"outbox_id", msg.ID.String(),
			"attempts", attempts,
			"next_retry_at", next,
			"error", err.Error())
	}
	d.metrics.OutboxDispatched.WithLabelValues(result).Inc()
	return false
}

func retryDelay(attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	if attempts > 6 {
		attempts = 6
	}
	delay := time.Duration(1<<attempts) * time.Second
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}
