package queries

import (
	"context"
	"time"

	"booking-service/internal/infra"
	"booking-service/internal/pkg/errs"

	"github.com/google/uuid"
)

// BookingView is the read model returned by status lookups.
type BookingView struct {
	ID            uuid.UUID `json:"booking_id"`
	UserID        int64     `json:"user_id"`
	EventID       int64     `json:"event_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Version       int32     `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
}

type BookingQueries interface {
	GetStatus(ctx context.Context, id uuid.UUID) (*BookingView, error)
}

type bookingQueriesImpl struct {
	readStore BookingReadStore
}

func NewBookingQueries(readStore BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{
		readStore: readStore,
	}
}

func (q *bookingQueriesImpl) GetStatus(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Wrap(err, "failed to load booking")
	}
	return view, nil
}
