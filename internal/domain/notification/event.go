package notification

import (
	"encoding/json"
	"errors"
	"strings"

	"booking-service/internal/domain/booking"

	"github.com/google/uuid"
)

var (
	ErrMissingBookingID = errors.New("notification event has no booking id")
	ErrUnknownEventType = errors.New("unknown notification event type")
)

type EventType string

const (
	EventConfirmed EventType = "CONFIRMED"
	EventCanceled  EventType = "CANCELED"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventConfirmed, EventCanceled:
		return true
	default:
		return false
	}
}

// Event is the message body carried on the notifications queue.
type Event struct {
	BookingID uuid.UUID       `json:"bookingId"`
	EventType EventType       `json:"eventType"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// BookingPayload is the snapshot attached to booking lifecycle events.
type BookingPayload struct {
	UserID        int64  `json:"user_id"`
	EventID       int64  `json:"event_id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	Message       string `json:"message"`
}

func NewBookingEvent(b *booking.Booking, eventType EventType) (Event, error) {
	if !eventType.IsValid() {
		return Event{}, ErrUnknownEventType
	}

	payload, err := json.Marshal(BookingPayload{
		UserID:        b.UserID(),
		EventID:       b.EventID(),
		Status:        b.Status().String(),
		PaymentStatus: b.PaymentStatus().String(),
		Message:       messageFor(eventType),
	})
	if err != nil {
		return Event{}, err
	}

	return Event{
		BookingID: b.ID(),
		EventType: eventType,
		Payload:   payload,
	}, nil
}

// Decode parses and validates a queue message body.
func Decode(body []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, err
	}
	ev.EventType = EventType(strings.ToUpper(string(ev.EventType)))
	if err := ev.Validate(); err != nil {
		return Event{}, err
	}
	return ev, nil
}

func (e Event) Validate() error {
	if e.BookingID == uuid.Nil {
		return ErrMissingBookingID
	}
	if !e.EventType.IsValid() {
		return ErrUnknownEventType
	}
	return nil
}

// DedupeKey identifies one logical notification; redeliveries share it.
func (e Event) DedupeKey() string {
	return e.BookingID.String() + ":" + string(e.EventType)
}

func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

func messageFor(t EventType) string {
	switch t {
	case EventConfirmed:
		return "Booking confirmed"
	case EventCanceled:
		return "Booking canceled"
	default:
		return ""
	}
}
