package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertOutboxEvent = `
INSERT INTO notification_outbox (id, booking_id, event_type, payload, status, attempts, next_retry_at, last_error)
VALUES ($1, $2, $3, $4, 'pending', $5, $6, $7)`

type InsertOutboxEventParams struct {
	ID          uuid.UUID
	BookingID   uuid.UUID
	EventType   string
	Payload     []byte
	Attempts    int32
	NextRetryAt pgtype.Timestamptz
	LastError   pgtype.Text
}

func (q *Queries) InsertOutboxEvent(ctx context.Context, db DBTX, arg InsertOutboxEventParams) error {
	_, err := db.Exec(ctx, insertOutboxEvent,
		arg.ID,
		arg.BookingID,
		arg.EventType,
		arg.Payload,
		arg.Attempts,
		arg.NextRetryAt,
		arg.LastError,
	)
	return err
}

// Expired 'processing' leases are reclaimed so a crashed dispatcher does not strand rows.
const claimOutboxEvents = `
WITH due AS (
    SELECT id
    FROM notification_outbox
    WHERE status IN ('pending', 'processing')
      AND next_retry_at <= $2
    ORDER BY created_at
    LIMIT $1
    FOR UPDATE SKIP LOCKED
)
UPDATE notification_outbox o
SET status = 'processing',
    next_retry_at = $3,
    updated_at = $2
FROM due
WHERE o.id = due.id
RETURNING o.id, o.booking_id, o.event_type, o.payload, o.status, o.attempts,
          o.next_retry_at, o.last_error, o.created_at, o.updated_at`

type ClaimOutboxEventsParams struct {
	Limit      int32
	Now        pgtype.Timestamptz
	LeaseUntil pgtype.Timestamptz
}

func (q *Queries) ClaimOutboxEvents(ctx context.Context, db DBTX, arg ClaimOutboxEventsParams) ([]NotificationOutbox, error) {
	rows, err := db.Query(ctx, claimOutboxEvents, arg.Limit, arg.Now, arg.LeaseUntil)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []NotificationOutbox
	for rows.Next() {
		var i NotificationOutbox
		if err := rows.Scan(
			&i.ID,
			&i.BookingID,
			&i.EventType,
			&i.Payload,
			&i.Status,
			&i.Attempts,
			&i.NextRetryAt,
			&i.LastError,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const markOutboxEventSent = `
UPDATE notification_outbox
SET status = 'sent',
    attempts = attempts + 1,
    last_error = NULL,
    updated_at = $2
WHERE id = $1`

func (q *Queries) MarkOutboxEventSent(ctx context.Context, db DBTX, id uuid.UUID, now pgtype.Timestamptz) error {
	_, err := db.Exec(ctx, markOutboxEventSent, id, now)
	return err
}

const markOutboxEventFailed = `
UPDATE notification_outbox
SET status = $2,
    attempts = attempts + 1,
    next_retry_at = $3,
    last_error = $4,
    updated_at = $5
WHERE id = $1`

type MarkOutboxEventFailedParams struct {
	ID          uuid.UUID
	Status      string
	NextRetryAt pgtype.Timestamptz
	LastError   pgtype.Text
	Now         pgtype.Timestamptz
}

func (q *Queries) MarkOutboxEventFailed(ctx context.Context, db DBTX, arg MarkOutboxEventFailedParams) error {
	_, err := db.Exec(ctx, markOutboxEventFailed,
		arg.ID,
		arg.Status,
		arg.NextRetryAt,
		arg.LastError,
		arg.Now,
	)
	return err
}
