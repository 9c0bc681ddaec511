//go:build unit

package queries_test

import (
	"context"
	"testing"

	"booking-service/internal/infra"
	"booking-service/internal/pkg/errs"
	"booking-service/internal/usecase/queries"
	"booking-service/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingReadStore struct {
	mock.Mock
}

func (m *MockBookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queries.BookingView), args.Error(1)
}

func TestGetStatus(t *testing.T) {
	view := builder.NewBookingBuilder().AsConfirmed().BuildView()

	t.Run("returns the stored view", func(t *testing.T) {
		store := new(MockBookingReadStore)
		store.On("FindByID", mock.Anything, view.ID).Return(view, nil)

		got, err := queries.NewBookingQueries(store).GetStatus(context.Background(), view.ID)

		require.NoError(t, err)
		assert.Equal(t, "confirmed", got.Status)
		assert.Equal(t, "paid", got.PaymentStatus)
	})

	t.Run("not found is marked", func(t *testing.T) {
		store := new(MockBookingReadStore)
		store.On("FindByID", mock.Anything, view.ID).
			Return(nil, infra.WrapRepoErr("booking not found", pgx.ErrNoRows, infra.KindNotFound))

		_, err := queries.NewBookingQueries(store).GetStatus(context.Background(), view.ID)

		assert.True(t, errs.Is(err, errs.ErrBookingNotFound))
	})

	t.Run("other failures are not reported as not found", func(t *testing.T) {
		store := new(MockBookingReadStore)
		store.On("FindByID", mock.Anything, view.ID).
			Return(nil, infra.WrapRepoErr("failed to find booking by ID", assert.AnError))

		_, err := queries.NewBookingQueries(store).GetStatus(context.Background(), view.ID)

		assert.Error(t, err)
		assert.False(t, errs.Is(err, errs.ErrBookingNotFound))
	})
}
