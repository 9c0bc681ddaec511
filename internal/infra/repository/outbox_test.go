//go:build unit

package repository

import (
	"context"
	"testing"
	"time"

	"booking-service/internal/domain/notification"
	"booking-service/internal/infra"
	"booking-service/internal/infra/query"
	"booking-service/internal/pkg/pgconv"
	"booking-service/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOutboxWriteQueries struct {
	mock.Mock
}

func (m *MockOutboxWriteQueries) InsertOutboxEvent(ctx context.Context, db query.DBTX, arg query.InsertOutboxEventParams) error {
	args := m.Called(ctx, db, arg)
	return args.Error(0)
}

func (m *MockOutboxWriteQueries) ClaimOutboxEvents(ctx context.Context, db query.DBTX, arg query.ClaimOutboxEventsParams) ([]query.NotificationOutbox, error) {
	args := m.Called(ctx, db, arg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]query.NotificationOutbox), args.Error(1)
}

func (m *MockOutboxWriteQueries) MarkOutboxEventSent(ctx context.Context, db query.DBTX, id uuid.UUID, now pgtype.Timestamptz) error {
	args := m.Called(ctx, db, id, now)
	return args.Error(0)
}

func (m *MockOutboxWriteQueries) MarkOutboxEventFailed(ctx context.Context, db query.DBTX, arg query.MarkOutboxEventFailedParams) error {
	args := m.Called(ctx, db, arg)
	return args.Error(0)
}

func TestOutboxRepositoryEnqueue(t *testing.T) {
	ev := notification.Event{BookingID: uuid.New(), EventType: notification.EventConfirmed}
	runAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	cause := "broker down"

	t.Run("stores the encoded event with spent attempts", func(t *testing.T) {
		mockQueries := new(MockOutboxWriteQueries)
		mockQueries.On("InsertOutboxEvent", mock.Anything, mock.Anything, mock.MatchedBy(func(p query.InsertOutboxEventParams) bool {
			decoded, err := notification.Decode(p.Payload)
			return err == nil &&
				p.ID != uuid.Nil &&
				p.BookingID == ev.BookingID &&
				p.EventType == "CONFIRMED" &&
				decoded.BookingID == ev.BookingID &&
				p.Attempts == 3 &&
				p.NextRetryAt.Time.Equal(runAt) &&
				p.LastError.Valid && p.LastError.String == cause
		})).Return(nil)

		repo := NewOutboxRepository(mockQueries)
		err := repo.Enqueue(context.Background(), nil, ev, 3, &cause, runAt)

		assert.NoError(t, err)
		mockQueries.AssertExpectations(t)
	})

	t.Run("database error", func(t *testing.T) {
		mockQueries := new(MockOutboxWriteQueries)
		mockQueries.On("InsertOutboxEvent", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		repo := NewOutboxRepository(mockQueries)
		err := repo.Enqueue(context.Background(), nil, ev, 0, nil, runAt)

		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}

func TestOutboxRepositoryClaim(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	lease := now.Add(30 * time.Second)
	row := query.NotificationOutbox{
		ID:        uuid.New(),
		BookingID: uuid.New(),
		EventType: "CANCELED",
		Payload:   []byte(`{"bookingId":"x"}`),
		Attempts:  2,
	}

	tests := []struct {
		name      string
		rows      []query.NotificationOutbox
		mockError error
		want      []shared.OutboxMessage
		wantError bool
	}{
		{
			name: "maps claimed rows",
			rows: []query.NotificationOutbox{row},
			want: []shared.OutboxMessage{{
				ID:        row.ID,
				BookingID: row.BookingID,
				EventType: "CANCELED",
				Body:      row.Payload,
				Attempts:  2,
			}},
		},
		{name: "nothing due", rows: nil, want: []shared.OutboxMessage{}},
		{name: "database error", mockError: assert.AnError, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockQueries := new(MockOutboxWriteQueries)
			mockQueries.On("ClaimOutboxEvents", mock.Anything, mock.Anything, query.ClaimOutboxEventsParams{
				Limit:      10,
				Now:        pgconv.TimeToPgtype(now),
				LeaseUntil: pgconv.TimeToPgtype(lease),
			}).Return(tt.rows, tt.mockError)

			repo := NewOutboxRepository(mockQueries)
			got, err := repo.Claim(context.Background(), nil, 10, now, lease)

			if tt.wantError {
				assert.True(t, infra.IsKind(err, infra.KindDBFailure))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			mockQueries.AssertExpectations(t)
		})
	}
}

func TestOutboxRepositoryMarkFailed(t *testing.T) {
	id := uuid.New()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	next := now.Add(4 * time.Second)

	tests := []struct {
		name       string
		giveUp     bool
		wantStatus string
	}{
		{name: "reschedules", giveUp: false, wantStatus: OutboxStatusPending},
		{name: "parks after final attempt", giveUp: true, wantStatus: OutboxStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockQueries := new(MockOutboxWriteQueries)
			mockQueries.On("MarkOutboxEventFailed", mock.Anything, mock.Anything, query.MarkOutboxEventFailedParams{
				ID:          id,
				Status:      tt.wantStatus,
				NextRetryAt: pgconv.TimeToPgtype(next),
				LastError:   pgtype.Text{String: "nack", Valid: true},
				Now:         pgconv.TimeToPgtype(now),
			}).Return(nil)

			repo := NewOutboxRepository(mockQueries)
			err := repo.MarkFailed(context.Background(), nil, id, "nack", next, tt.giveUp, now)

			assert.NoError(t, err)
			mockQueries.AssertExpectations(t)
		})
	}
}

func TestOutboxRepositoryMarkSent(t *testing.T) {
	id := uuid.New()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mockQueries := new(MockOutboxWriteQueries)
	mockQueries.On("MarkOutboxEventSent", mock.Anything, mock.Anything, id, pgconv.TimeToPgtype(now)).Return(assert.AnError)

	repo := NewOutboxRepository(mockQueries)
	err := repo.MarkSent(context.Background(), nil, id, now)

	assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	mockQueries.AssertExpectations(t)
}
