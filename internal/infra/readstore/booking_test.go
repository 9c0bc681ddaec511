//go:build unit

package readstore

import (
	"context"
	"testing"

	"booking-service/internal/infra"
	"booking-service/internal/infra/query"
	"booking-service/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingReadQueries struct {
	mock.Mock
}

func (m *MockBookingReadQueries) GetBookingByID(ctx context.Context, db query.DBTX, id uuid.UUID) (query.Booking, error) {
	args := m.Called(ctx, db, id)
	return args.Get(0).(query.Booking), args.Error(1)
}

func TestBookingFindByID(t *testing.T) {
	b := builder.NewBookingBuilder().WithUserID(3).WithEventID(11).AsConfirmed()

	tests := []struct {
		name       string
		mockReturn query.Booking
		mockError  error
		wantKind   infra.RepositoryErrorKind
	}{
		{name: "success", mockReturn: b.BuildInfra()},
		{name: "booking not found", mockError: pgx.ErrNoRows, wantKind: infra.KindNotFound},
		{name: "database error", mockError: assert.AnError, wantKind: infra.KindDBFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockQueries := new(MockBookingReadQueries)
			mockQueries.On("GetBookingByID", mock.Anything, mock.Anything, b.ID).Return(tt.mockReturn, tt.mockError)

			store := NewBookingReadStore(mockQueries, nil)
			got, err := store.FindByID(context.Background(), b.ID)

			if tt.wantKind != "" {
				assert.True(t, infra.IsKind(err, tt.wantKind), "unexpected kind: %v", err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(b.BuildView(), got); diff != "" {
				t.Errorf("view mismatch (-want +got):\n%s", diff)
			}
			mockQueries.AssertExpectations(t)
		})
	}
}
