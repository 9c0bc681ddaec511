package converter

import (
	"booking-service/internal/domain/booking"
	"booking-service/internal/infra/query"
	"booking-service/internal/pkg/pgconv"
)

func BookingToCreateParams(b *booking.Booking) query.CreateBookingParams {
	return query.CreateBookingParams{
		ID:            b.ID(),
		UserID:        b.UserID(),
		EventID:       b.EventID(),
		Status:        b.Status().String(),
		PaymentStatus: b.PaymentStatus().String(),
		Version:       b.Version(),
		CreatedAt:     pgconv.TimeToPgtype(b.CreatedAt()),
	}
}

func BookingToUpdateParams(b *booking.Booking) query.UpdateBookingStateParams {
	return query.UpdateBookingStateParams{
		ID:            b.ID(),
		Status:        b.Status().String(),
		PaymentStatus: b.PaymentStatus().String(),
		Version:       b.Version(),
		UpdatedAt:     pgconv.TimeToPgtype(b.UpdatedAt()),
	}
}

func BookingFromRow(row query.Booking) (*booking.Booking, error) {
	return booking.ReconstructBooking(
		row.ID,
		row.UserID,
		row.EventID,
		booking.Status(row.Status),
		booking.PaymentStatus(row.PaymentStatus),
		row.Version,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	)
}
