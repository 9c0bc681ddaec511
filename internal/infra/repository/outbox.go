package repository

import (
	"context"
	"time"

	"booking-service/internal/domain/notification"
	"booking-service/internal/infra"
	"booking-service/internal/infra/query"
	"booking-service/internal/pkg/pgconv"
	"booking-service/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	OutboxStatusFailed  = "failed"
	OutboxStatusPending = "pending"
)

type OutboxWriteQueries interface {
	InsertOutboxEvent(ctx context.Context, db query.DBTX, arg query.InsertOutboxEventParams) error
	ClaimOutboxEvents(ctx context.Context, db query.DBTX, arg query.ClaimOutboxEventsParams) ([]query.NotificationOutbox, error)
	MarkOutboxEventSent(ctx context.Context, db query.DBTX, id uuid.UUID, now pgtype.Timestamptz) error
	MarkOutboxEventFailed(ctx context.Context, db query.DBTX, arg query.MarkOutboxEventFailedParams) error
}

type OutboxRepository struct {
	queries OutboxWriteQueries
}

func NewOutboxRepository(queries OutboxWriteQueries) *OutboxRepository {
	return &OutboxRepository{
		queries: queries,
	}
}

// Enqueue stores an event for background delivery. attempts records tries already spent by the caller.
func (r *OutboxRepository) Enqueue(ctx context.Context, db query.DBTX, ev notification.Event, attempts int, lastError *string, runAt time.Time) error {
	body, err := ev.Encode()
	if err != nil {
		return infra.WrapRepoErr("failed to encode outbox event", err, infra.KindDBFailure)
	}

	params := query.InsertOutboxEventParams{
		ID:          uuid.New(),
		BookingID:   ev.BookingID,
		EventType:   string(ev.EventType),
		Payload:     body,
		Attempts:    int32(attempts), // #nosec G115 -- bounded by publisher retry config
		NextRetryAt: pgconv.TimeToPgtype(runAt),
		LastError:   pgconv.StringPtrToPgtype(lastError),
	}

	if err := r.queries.InsertOutboxEvent(ctx, db, params); err != nil {
		return infra.WrapRepoErr("failed to enqueue outbox event", err)
	}
	return nil
}

// Claim leases up to limit due rows until leaseUntil so concurrent dispatchers skip them.
func (r *OutboxRepository) Claim(ctx context.Context, db query.DBTX, limit int, now, leaseUntil time.Time) ([]shared.OutboxMessage, error) {
	rows, err := r.queries.ClaimOutboxEvents(ctx, db, query.ClaimOutboxEventsParams{
		Limit:      int32(limit), // #nosec G115 -- batch size from config
		Now:        pgconv.TimeToPgtype(now),
		LeaseUntil: pgconv.TimeToPgtype(leaseUntil),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim outbox events", err)
	}

	msgs := make([]shared.OutboxMessage, len(rows))
	for i, row := range rows {
		msgs[i] = shared.OutboxMessage{
			ID:        row.ID,
			BookingID: row.BookingID,
			EventType: row.EventType,
			Body:      row.Payload,
			Attempts:  int(row.Attempts),
		}
	}
	return msgs, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, db query.DBTX, id uuid.UUID, now time.Time) error {
	if err := r.queries.MarkOutboxEventSent(ctx, db, id, pgconv.TimeToPgtype(now)); err != nil {
		return infra.WrapRepoErr("failed to mark outbox event sent", err)
	}
	return nil
}

// MarkFailed reschedules the row, or parks it as failed when giveUp is set.
func (r *OutboxRepository) MarkFailed(ctx context.Context, db query.DBTX, id uuid.UUID, cause string, nextRetry time.Time, giveUp bool, now time.Time) error {
	status := OutboxStatusPending
	if giveUp {
		status = OutboxStatusFailed
	}

	params := query.MarkOutboxEventFailedParams{
		ID:          id,
		Status:      status,
		NextRetryAt: pgconv.TimeToPgtype(nextRetry),
		LastError:   pgconv.StringPtrToPgtype(&cause),
		Now:         pgconv.TimeToPgtype(now),
	}
	if err := r.queries.MarkOutboxEventFailed(ctx, db, params); err != nil {
		return infra.WrapRepoErr("failed to mark outbox event failed", err)
	}
	return nil
}
