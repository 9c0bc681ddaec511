package repository

import (
	"context"

	"booking-service/internal/domain/booking"
	"booking-service/internal/infra"
	"booking-service/internal/infra/query"
	"booking-service/internal/infra/repository/converter"

	"github.com/google/uuid"
)

type BookingWriteQueries interface {
	CreateBooking(ctx context.Context, db query.DBTX, arg query.CreateBookingParams) (query.Booking, error)
	GetBookingByIDForUpdate(ctx context.Context, db query.DBTX, id uuid.UUID) (query.Booking, error)
	UpdateBookingState(ctx context.Context, db query.DBTX, arg query.UpdateBookingStateParams) (int64, error)
}

type BookingRepository struct {
	queries BookingWriteQueries
}

func NewBookingRepository(queries BookingWriteQueries) *BookingRepository {
	return &BookingRepository{
		queries: queries,
	}
}

func (r *BookingRepository) Create(ctx context.Context, tx query.DBTX, b *booking.Booking) error {
	if _, err := r.queries.CreateBooking(ctx, tx, converter.BookingToCreateParams(b)); err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

// FindForUpdate loads the booking and locks its row for the rest of the transaction.
func (r *BookingRepository) FindForUpdate(ctx context.Context, tx query.DBTX, id uuid.UUID) (*booking.Booking, error) {
	row, err := r.queries.GetBookingByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock booking", err)
	}

	b, err := converter.BookingFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt booking row", err, infra.KindDBFailure)
	}
	return b, nil
}

// UpdateState persists a transition. The row must still be at the version preceding b.Version().
func (r *BookingRepository) UpdateState(ctx context.Context, tx query.DBTX, b *booking.Booking) error {
	affected, err := r.queries.UpdateBookingState(ctx, tx, converter.BookingToUpdateParams(b))
	if err != nil {
		return infra.WrapRepoErr("failed to update booking state", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("booking was modified concurrently", nil, infra.KindConflict)
	}
	return nil
}
