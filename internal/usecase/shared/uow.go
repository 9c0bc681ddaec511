package shared

import (
	"context"
	"time"

	"booking-service/internal/domain/booking"
	"booking-service/internal/domain/notification"
	"booking-service/internal/infra/query"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single statements outside an explicit transaction
	WithDB(ctx context.Context, fn func(ctx context.Context, db query.DBTX) error) error
	// Outbox: Repository usable with either of the above
	Outbox() OutboxRepository
}

type Tx interface {
	Bookings() BookingRepository
	Outbox() OutboxRepository
	DB() query.DBTX
}

type BookingRepository interface {
	Create(ctx context.Context, tx query.DBTX, b *booking.Booking) error
	FindForUpdate(ctx context.Context, tx query.DBTX, id uuid.UUID) (*booking.Booking, error)
	UpdateState(ctx context.Context, tx query.DBTX, b *booking.Booking) error
}

// OutboxMessage is a claimed outbox row ready to be handed to the broker.
type OutboxMessage struct {
	ID        uuid.UUID
	BookingID uuid.UUID
	EventType string
	Body      []byte
	Attempts  int
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, db query.DBTX, ev notification.Event, attempts int, lastError *string, runAt time.Time) error
	Claim(ctx context.Context, db query.DBTX, limit int, now, leaseUntil time.Time) ([]OutboxMessage, error)
	MarkSent(ctx context.Context, db query.DBTX, id uuid.UUID, now time.Time) error
	MarkFailed(ctx context.Context, db query.DBTX, id uuid.UUID, cause string, nextRetry time.Time, giveUp bool, now time.Time) error
}
