package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingColumns = `id, user_id, event_id, status, payment_status, version, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (Booking, error) {
	var i Booking
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.EventID,
		&i.Status,
		&i.PaymentStatus,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createBooking = `
INSERT INTO bookings (id, user_id, event_id, status, payment_status, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
RETURNING ` + bookingColumns

type CreateBookingParams struct {
	ID            uuid.UUID
	UserID        int64
	EventID       int64
	Status        string
	PaymentStatus string
	Version       int32
	CreatedAt     pgtype.Timestamptz
}

func (q *Queries) CreateBooking(ctx context.Context, db DBTX, arg CreateBookingParams) (Booking, error) {
	row := db.QueryRow(ctx, createBooking,
		arg.ID,
		arg.UserID,
		arg.EventID,
		arg.Status,
		arg.PaymentStatus,
		arg.Version,
		arg.CreatedAt,
	)
	return scanBooking(row)
}

const getBookingByID = `
SELECT ` + bookingColumns + `
FROM bookings
WHERE id = $1`

func (q *Queries) GetBookingByID(ctx context.Context, db DBTX, id uuid.UUID) (Booking, error) {
	return scanBooking(db.QueryRow(ctx, getBookingByID, id))
}

// Row lock held until the surrounding transaction ends.
const getBookingByIDForUpdate = getBookingByID + `
FOR UPDATE`

func (q *Queries) GetBookingByIDForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (Booking, error) {
	return scanBooking(db.QueryRow(ctx, getBookingByIDForUpdate, id))
}

const updateBookingState = `
UPDATE bookings
SET status = $2,
    payment_status = $3,
    version = $4,
    updated_at = $5
WHERE id = $1
  AND version = $4 - 1`

type UpdateBookingStateParams struct {
	ID            uuid.UUID
	Status        string
	PaymentStatus string
	Version       int32
	UpdatedAt     pgtype.Timestamptz
}

func (q *Queries) UpdateBookingState(ctx context.Context, db DBTX, arg UpdateBookingStateParams) (int64, error) {
	result, err := db.Exec(ctx, updateBookingState,
		arg.ID,
		arg.Status,
		arg.PaymentStatus,
		arg.Version,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
