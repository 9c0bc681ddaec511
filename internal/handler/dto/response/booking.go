package response

import (
	"booking-service/internal/usecase/queries"

	"github.com/google/uuid"
)

type CreateBookingResponse struct {
	Message   string    `json:"message"`
	BookingID uuid.UUID `json:"booking_id"`
}

// TransitionResponse is returned by payment and cancellation.
type TransitionResponse struct {
	Message       string  `json:"message"`
	BookingStatus string  `json:"booking_status"`
	Warning       *string `json:"warning,omitempty"`
}

type BookingStatusResponse struct {
	BookingID     uuid.UUID `json:"booking_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
}

func FromBookingView(v *queries.BookingView) *BookingStatusResponse {
	return &BookingStatusResponse{
		BookingID:     v.ID,
		Status:        v.Status,
		PaymentStatus: v.PaymentStatus,
	}
}

func NewTransitionResponse(message, status, warning string) TransitionResponse {
	resp := TransitionResponse{Message: message, BookingStatus: status}
	if warning != "" {
		resp.Warning = &warning
	}
	return resp
}
