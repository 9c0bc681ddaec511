package readstore

import (
	"context"

	"booking-service/internal/infra"
	"booking-service/internal/infra/query"
	"booking-service/internal/pkg/pgconv"
	"booking-service/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingReadQueries interface {
	GetBookingByID(ctx context.Context, db query.DBTX, id uuid.UUID) (query.Booking, error)
}

type BookingReadStore struct {
	queries BookingReadQueries
	db      query.DBTX
}

func NewBookingReadStore(queries BookingReadQueries, db query.DBTX) *BookingReadStore {
	return &BookingReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row, err := r.queries.GetBookingByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	return rowToBookingView(row), nil
}

func rowToBookingView(row query.Booking) *queries.BookingView {
	return &queries.BookingView{
		ID:            row.ID,
		UserID:        row.UserID,
		EventID:       row.EventID,
		Status:        row.Status,
		PaymentStatus: row.PaymentStatus,
		Version:       row.Version,
		CreatedAt:     pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:     pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}
