//go:build unit || e2e

package builder

import (
	"time"

	"booking-service/internal/domain/booking"
	reqdto "booking-service/internal/handler/dto/request"
	"booking-service/internal/infra/query"
	"booking-service/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingBuilder struct {
	ID            uuid.UUID
	UserID        int64
	EventID       int64
	Status        booking.Status
	PaymentStatus booking.PaymentStatus
	Version       int32
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		ID:            uuid.New(),
		UserID:        1,
		EventID:       1,
		Status:        booking.StatusPending,
		PaymentStatus: booking.PaymentUnpaid,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	return booking.ReconstructBooking(b.ID, b.UserID, b.EventID, b.Status, b.PaymentStatus, b.Version, b.CreatedAt, b.UpdatedAt)
}

func (b *BookingBuilder) BuildInfra() query.Booking {
	return query.Booking{
		ID:            b.ID,
		UserID:        b.UserID,
		EventID:       b.EventID,
		Status:        b.Status.String(),
		PaymentStatus: b.PaymentStatus.String(),
		Version:       b.Version,
		CreatedAt:     pgtype.Timestamptz{Time: b.CreatedAt, Valid: true},
		UpdatedAt:     pgtype.Timestamptz{Time: b.UpdatedAt, Valid: true},
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return &queries.BookingView{
		ID:            b.ID,
		UserID:        b.UserID,
		EventID:       b.EventID,
		Status:        b.Status.String(),
		PaymentStatus: b.PaymentStatus.String(),
		Version:       b.Version,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		UserID:  b.UserID,
		EventID: b.EventID,
	}
}

// Fluent builder methods
func (b *BookingBuilder) WithID(id uuid.UUID) *BookingBuilder {
	b.ID = id
	return b
}

func (b *BookingBuilder) WithUserID(userID int64) *BookingBuilder {
	b.UserID = userID
	return b
}

func (b *BookingBuilder) WithEventID(eventID int64) *BookingBuilder {
	b.EventID = eventID
	return b
}

func (b *BookingBuilder) WithVersion(version int32) *BookingBuilder {
	b.Version = version
	return b
}

func (b *BookingBuilder) AsConfirmed() *BookingBuilder {
	b.Status = booking.StatusConfirmed
	b.PaymentStatus = booking.PaymentPaid
	return b
}

func (b *BookingBuilder) AsCanceled() *BookingBuilder {
	b.Status = booking.StatusCanceled
	return b
}
