package usecase

import (
	"context"
	"log/slog"
	"time"

	"booking-service/internal/domain/booking"
	"booking-service/internal/domain/notification"
	"booking-service/internal/pkg/config"
	"booking-service/internal/pkg/errs"
	"booking-service/internal/pkg/metrics"
	"booking-service/internal/usecase/commands"
	"booking-service/internal/usecase/queries"
	"booking-service/internal/usecase/shared"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

const (
	WarningConfirmationNotSent = "Payment recorded, but the confirmation notification could not be sent yet"
	WarningCancelNotSent       = "Booking canceled, but the cancellation notification could not be sent yet"
)

// TransitionOutcome is the result of a state change requested over the API.
// Warning is set when the follow-up notification failed; the change itself is committed.
type TransitionOutcome struct {
	Booking *booking.Booking
	Changed bool
	Warning string
}

type (
	PaymentResult = TransitionOutcome
	CancelResult  = TransitionOutcome
)

type BookingOrchestrator interface {
	HandleCreateBooking(ctx context.Context, userID, eventID int64) (uuid.UUID, error)
	HandlePayment(ctx context.Context, id uuid.UUID) (*PaymentResult, error)
	HandleCancel(ctx context.Context, id uuid.UUID) (*CancelResult, error)
	HandleGetStatus(ctx context.Context, id uuid.UUID) (*queries.BookingView, error)
}

type bookingOrchestratorImpl struct {
	availability shared.AvailabilityChecker
	commands     commands.BookingCommands
	queries      queries.BookingQueries
	publisher    shared.EventPublisher
	metrics      *metrics.Metrics
	retryBackoff time.Duration
}

func NewBookingOrchestrator(
	availability shared.AvailabilityChecker,
	cmds commands.BookingCommands,
	qs queries.BookingQueries,
	publisher shared.EventPublisher,
	m *metrics.Metrics,
	cfg config.EventServiceConfig,
) BookingOrchestrator {
	return &bookingOrchestratorImpl{
		availability: availability,
		commands:     cmds,
		queries:      qs,
		publisher:    publisher,
		metrics:      m,
		retryBackoff: cfg.RetryBackoff,
	}
}

func (o *bookingOrchestratorImpl) HandleCreateBooking(ctx context.Context, userID, eventID int64) (uuid.UUID, error) {
	if err := booking.ValidateRefs(userID, eventID); err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrValidation)
	}

	available, err := o.checkAvailability(ctx, eventID)
	if err != nil {
		return uuid.Nil, err
	}
	if !available {
		return uuid.Nil, errs.Mark(errs.Newf("event %d is not available", eventID), errs.ErrEventNotAvailable)
	}

	b, err := o.commands.Create(ctx, userID, eventID)
	if err != nil {
		return uuid.Nil, err
	}
	return b.ID(), nil
}

// checkAvailability retries exactly once when the Event service is unreachable.
func (o *bookingOrchestratorImpl) checkAvailability(ctx context.Context, eventID int64) (bool, error) {
	attempt := 0
	op := func() (bool, error) {
		attempt++
		ok, err := o.availability.CheckAvailability(ctx, eventID)
		if err == nil {
			return ok, nil
		}
		if errs.Is(err, errs.ErrUpstreamUnavailable) {
			slog.Warn("availability check failed",
				"event_id", eventID,
				"attempt", attempt,
				"error", err.Error())
			return false, err
		}
		return false, backoff.Permanent(err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(o.retryBackoff), 1), ctx)
	available, err := backoff.RetryWithData(op, policy)

	switch {
	case err != nil:
		o.metrics.AvailabilityChecks.WithLabelValues("upstream_error").Inc()
		return false, errs.Mark(errs.Wrap(err, "event service unavailable"), errs.ErrServiceUnavailable)
	case available:
		o.metrics.AvailabilityChecks.WithLabelValues("available").Inc()
	default:
		o.metrics.AvailabilityChecks.WithLabelValues("unavailable").Inc()
	}
	return available, nil
}

func (o *bookingOrchestratorImpl) HandlePayment(ctx context.Context, id uuid.UUID) (*PaymentResult, error) {
	res, err := o.commands.ConfirmPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &PaymentResult{Booking: res.Booking, Changed: res.Changed}
	// A replayed payment publishes again: the first attempt may have failed and consumers dedupe.
	if !o.notify(ctx, res.Booking, notification.EventConfirmed) {
		out.Warning = WarningConfirmationNotSent
	}
	return out, nil
}

func (o *bookingOrchestratorImpl) HandleCancel(ctx context.Context, id uuid.UUID) (*CancelResult, error) {
	res, err := o.commands.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &CancelResult{Booking: res.Booking, Changed: res.Changed}
	if res.Changed && !o.notify(ctx, res.Booking, notification.EventCanceled) {
		out.Warning = WarningCancelNotSent
	}
	return out, nil
}

func (o *bookingOrchestratorImpl) HandleGetStatus(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	return o.queries.GetStatus(ctx, id)
}

// notify publishes after the transition committed. It reports false on failure and never returns an error.
func (o *bookingOrchestratorImpl) notify(ctx context.Context, b *booking.Booking, eventType notification.EventType) bool {
	ev, err := notification.NewBookingEvent(b, eventType)
	if err == nil {
		err = o.publisher.Publish(ctx, ev)
	}
	if err != nil {
		attrs := []any{
			"booking_id", b.ID().String(),
			"event_type", string(eventType),
			"error", err.Error(),
		}
		var perr *shared.PublishError
		if errs.As(err, &perr) {
			attrs = append(attrs, "attempts", perr.Attempts)
		}
		slog.WarnContext(ctx, "booking notification not delivered", attrs...)
		return false
	}
	return true
}
