package commands

import (
	"context"
	"errors"
	"log/slog"

	"booking-service/internal/domain/booking"
	"booking-service/internal/infra"
	"booking-service/internal/pkg/clock"
	"booking-service/internal/pkg/errs"
	"booking-service/internal/pkg/metrics"
	"booking-service/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	transitionConfirm = "confirm_payment"
	transitionCancel  = "cancel"

	resultChanged  = "changed"
	resultNoop     = "noop"
	resultRejected = "rejected"
)

// TransitionResult carries the booking after a transition. Changed is false for replays.
type TransitionResult struct {
	Booking *booking.Booking
	Changed bool
}

type BookingCommands interface {
	Create(ctx context.Context, userID, eventID int64) (*booking.Booking, error)
	ConfirmPayment(ctx context.Context, id uuid.UUID) (*TransitionResult, error)
	Cancel(ctx context.Context, id uuid.UUID) (*TransitionResult, error)
}

type bookingUseCaseImpl struct {
	uow     shared.UnitOfWork
	clock   clock.Clock
	metrics *metrics.Metrics
}

func NewBookingUseCase(uow shared.UnitOfWork, clk clock.Clock, m *metrics.Metrics) BookingCommands {
	return &bookingUseCaseImpl{uow: uow, clock: clk, metrics: m}
}

func (uc *bookingUseCaseImpl) Create(ctx context.Context, userID, eventID int64) (*booking.Booking, error) {
	b, err := booking.NewBooking(uc.clock, userID, eventID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Bookings().Create(ctx, tx.DB(), b)
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	uc.metrics.BookingsCreated.Inc()
	slog.Info("booking created",
		"booking_id", b.ID().String(),
		"user_id", userID,
		"event_id", eventID)
	return b, nil
}

func (uc *bookingUseCaseImpl) ConfirmPayment(ctx context.Context, id uuid.UUID) (*TransitionResult, error) {
	return uc.transition(ctx, id, transitionConfirm, func(b *booking.Booking) (bool, error) {
		return b.ConfirmPayment(uc.clock.Now())
	})
}

func (uc *bookingUseCaseImpl) Cancel(ctx context.Context, id uuid.UUID) (*TransitionResult, error) {
	return uc.transition(ctx, id, transitionCancel, func(b *booking.Booking) (bool, error) {
		return b.Cancel(uc.clock.Now()), nil
	})
}

// transition applies apply to the locked row and writes only when the state changed.
func (uc *bookingUseCaseImpl) transition(
	ctx context.Context,
	id uuid.UUID,
	name string,
	apply func(b *booking.Booking) (bool, error),
) (*TransitionResult, error) {
	var result TransitionResult

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, derr := tx.Bookings().FindForUpdate(ctx, tx.DB(), id)
		if derr != nil {
			return derr
		}

		changed, derr := apply(b)
		if derr != nil {
			return derr
		}
		if changed {
			if derr = tx.Bookings().UpdateState(ctx, tx.DB(), b); derr != nil {
				return derr
			}
		}

		result = TransitionResult{Booking: b, Changed: changed}
		return nil
	})
	if err != nil {
		err = classifyTransitionError(err)
		if errs.Is(err, errs.ErrInvalidTransition) {
			uc.metrics.BookingTransitions.WithLabelValues(name, resultRejected).Inc()
		}
		return nil, err
	}

	outcome := resultNoop
	if result.Changed {
		outcome = resultChanged
		slog.Info("booking transitioned",
			"booking_id", id.String(),
			"transition", name,
			"status", result.Booking.Status().String(),
			"version", result.Booking.Version())
	}
	uc.metrics.BookingTransitions.WithLabelValues(name, outcome).Inc()

	return &result, nil
}

func classifyTransitionError(err error) error {
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, errs.ErrBookingNotFound)
	case errors.Is(err, booking.ErrInvalidTransition):
		return errs.Mark(err, errs.ErrInvalidTransition)
	default:
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}
