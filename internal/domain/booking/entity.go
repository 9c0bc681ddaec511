package booking

import (
	"errors"
	"time"

	"booking-service/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrInvalidUserID     = errors.New("user_id must be a positive integer")
	ErrInvalidEventID    = errors.New("event_id must be a positive integer")
	ErrInvalidTransition = errors.New("invalid booking state transition")
	ErrInconsistentState = errors.New("confirmed booking must be paid")
	ErrInvalidStatus     = errors.New("invalid booking status")
)

type Booking struct {
	id            uuid.UUID
	userID        int64
	eventID       int64
	status        Status
	paymentStatus PaymentStatus
	version       int32
	createdAt     time.Time
	updatedAt     time.Time
}

func ValidateRefs(userID, eventID int64) error {
	if userID <= 0 {
		return ErrInvalidUserID
	}
	if eventID <= 0 {
		return ErrInvalidEventID
	}
	return nil
}

func NewBooking(clk clock.Clock, userID, eventID int64) (*Booking, error) {
	if err := ValidateRefs(userID, eventID); err != nil {
		return nil, err
	}

	now := clk.Now()
	return &Booking{
		id:            uuid.New(),
		userID:        userID,
		eventID:       eventID,
		status:        StatusPending,
		paymentStatus: PaymentUnpaid,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructBooking rebuilds a booking from storage and rejects rows that break the lifecycle invariants.
func ReconstructBooking(
	id uuid.UUID,
	userID, eventID int64,
	status Status,
	paymentStatus PaymentStatus,
	version int32,
	createdAt, updatedAt time.Time,
) (*Booking, error) {
	if !status.IsValid() || !paymentStatus.IsValid() {
		return nil, ErrInvalidStatus
	}
	b := &Booking{
		id:            id,
		userID:        userID,
		eventID:       eventID,
		status:        status,
		paymentStatus: paymentStatus,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
	if !b.IsConsistent() {
		return nil, ErrInconsistentState
	}
	return b, nil
}

// ConfirmPayment moves pending/unpaid to confirmed/paid. The bool is false when nothing changed.
func (b *Booking) ConfirmPayment(now time.Time) (bool, error) {
	switch b.status {
	case StatusConfirmed:
		return false, nil
	case StatusCanceled:
		return false, ErrInvalidTransition
	}

	b.status = StatusConfirmed
	b.paymentStatus = PaymentPaid
	b.touch(now)
	return true, nil
}

// Cancel moves any non-terminal booking to canceled. Payment status is left as is.
func (b *Booking) Cancel(now time.Time) bool {
	if b.status.IsTerminal() {
		return false
	}

	b.status = StatusCanceled
	b.touch(now)
	return true
}

func (b *Booking) touch(now time.Time) {
	b.version++
	b.updatedAt = now
}

func (b *Booking) IsConsistent() bool {
	return b.status != StatusConfirmed || b.paymentStatus == PaymentPaid
}

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) UserID() int64                { return b.userID }
func (b *Booking) EventID() int64               { return b.eventID }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }
func (b *Booking) Version() int32               { return b.version }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }
