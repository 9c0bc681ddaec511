//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"booking-service/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

// DBLike is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// InsertBooking writes the builder's row directly, bypassing the state machine.
func InsertBooking(t *testing.T, db DBLike, b *builder.BookingBuilder) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx, `
		INSERT INTO bookings (id, user_id, event_id, status, payment_status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.UserID, b.EventID, b.Status.String(), b.PaymentStatus.String(), b.Version, b.CreatedAt, b.UpdatedAt)
	require.NoError(t, err)

	return b.ID
}

// BookingState returns the persisted status and payment status.
func BookingState(t *testing.T, db DBLike, id uuid.UUID) (status, paymentStatus string) {
	t.Helper()

	err := db.QueryRow(context.Background(),
		"SELECT status, payment_status FROM bookings WHERE id = $1", id).Scan(&status, &paymentStatus)
	require.NoError(t, err)
	return status, paymentStatus
}

func CountBookings(t *testing.T, db DBLike) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM bookings").Scan(&n)
	require.NoError(t, err)
	return n
}

// CountOutbox counts parked notifications with the given status.
func CountOutbox(t *testing.T, db DBLike, status string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM notification_outbox WHERE status = $1", status).Scan(&n)
	require.NoError(t, err)
	return n
}

// appTables lists every table a test may write to.
var appTables = []string{"notification_outbox", "bookings"}

// ResetDB empties the application tables between tests.
func ResetDB(db DBLike) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := db.Exec(ctx, "TRUNCATE "+strings.Join(appTables, ", ")+" CASCADE"); err != nil {
		return fmt.Errorf("reset test database: %w", err)
	}
	return nil
}
