//go:build unit

package notification_test

import (
	"encoding/json"
	"testing"

	"booking-service/internal/domain/notification"
	"booking-service/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingEvent(t *testing.T) {
	b, err := builder.NewBookingBuilder().WithUserID(1).WithEventID(7).AsConfirmed().BuildDomain()
	require.NoError(t, err)

	ev, err := notification.NewBookingEvent(b, notification.EventConfirmed)
	require.NoError(t, err)

	assert.Equal(t, b.ID(), ev.BookingID)
	assert.Equal(t, notification.EventConfirmed, ev.EventType)
	assert.Equal(t, b.ID().String()+":CONFIRMED", ev.DedupeKey())

	var payload notification.BookingPayload
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	assert.Equal(t, notification.BookingPayload{
		UserID:        1,
		EventID:       7,
		Status:        "confirmed",
		PaymentStatus: "paid",
		Message:       "Booking confirmed",
	}, payload)

	t.Run("unknown event type", func(t *testing.T) {
		_, err := notification.NewBookingEvent(b, "SHIPPED")
		assert.ErrorIs(t, err, notification.ErrUnknownEventType)
	})
}

func TestEventWireFormat(t *testing.T) {
	id := uuid.MustParse("7f1d8f64-2b8a-4a7e-9a1c-3f0c2c0f9a11")
	ev := notification.Event{BookingID: id, EventType: notification.EventConfirmed, Payload: json.RawMessage(`{"k":1}`)}

	body, err := ev.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"bookingId":"7f1d8f64-2b8a-4a7e-9a1c-3f0c2c0f9a11","eventType":"CONFIRMED","payload":{"k":1}}`, string(body))
}

func TestDecode(t *testing.T) {
	id := uuid.New()

	cases := []struct {
		name  string
		body  string
		want  notification.EventType
		errIs error
		bad   bool
	}{
		{name: "confirmed", body: `{"bookingId":"` + id.String() + `","eventType":"CONFIRMED"}`, want: notification.EventConfirmed},
		{name: "lowercase type is normalized", body: `{"bookingId":"` + id.String() + `","eventType":"canceled"}`, want: notification.EventCanceled},
		{name: "missing booking id", body: `{"eventType":"CONFIRMED"}`, errIs: notification.ErrMissingBookingID},
		{name: "unknown type", body: `{"bookingId":"` + id.String() + `","eventType":"PAID"}`, errIs: notification.ErrUnknownEventType},
		{name: "not json", body: `booking confirmed`, bad: true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ev, err := notification.Decode([]byte(c.body))
			switch {
			case c.errIs != nil:
				assert.ErrorIs(t, err, c.errIs)
			case c.bad:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, id, ev.BookingID)
				assert.Equal(t, c.want, ev.EventType)
			}
		})
	}
}
