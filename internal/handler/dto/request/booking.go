package request

type CreateBookingRequest struct {
	UserID  int64 `json:"user_id" binding:"required,gt=0"`
	EventID int64 `json:"event_id" binding:"required,gt=0"`
}
