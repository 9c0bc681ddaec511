package notifier

import (
	"context"
	"encoding/json"
	"log/slog"

	"booking-service/internal/domain/notification"
	"booking-service/internal/usecase/notify"
)

// LogSender writes notifications to the log. It stands in for a real channel (mail, push).
type LogSender struct {
	logger *slog.Logger
}

var _ notify.Notifier = (*LogSender)(nil)

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Notify(ctx context.Context, ev notification.Event) error {
	attrs := []any{
		slog.String("booking_id", ev.BookingID.String()),
		slog.String("event_type", string(ev.EventType)),
	}

	var p notification.BookingPayload
	if len(ev.Payload) > 0 {
		if err := json.Unmarshal(ev.Payload, &p); err == nil {
			attrs = append(attrs,
				slog.Int64("user_id", p.UserID),
				slog.Int64("event_id", p.EventID),
				slog.String("message", p.Message))
		}
	}

	s.logger.InfoContext(ctx, "notification sent", attrs...)
	return nil
}
