package shared

import (
	"context"
	"fmt"

	"booking-service/internal/domain/notification"
	"booking-service/internal/pkg/errs"

	"github.com/google/uuid"
)

// AvailabilityChecker asks the Event service whether an event can be booked.
// Implementations must never report true when the answer is unknown: a failed
// or timed out call is an error marked with errs.ErrUpstreamUnavailable.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, eventID int64) (bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, ev notification.Event) error
}

// PublishError reports that an event could not be handed to the broker
// after every attempt was spent.
type PublishError struct {
	BookingID uuid.UUID
	EventType notification.EventType
	Attempts  int
	Err       error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %s for booking %s failed after %d attempts: %v",
		e.EventType, e.BookingID, e.Attempts, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// Is lets errs.Is(err, errs.ErrPublishFailed) match any PublishError.
func (e *PublishError) Is(target error) bool {
	return target == errs.ErrPublishFailed
}
