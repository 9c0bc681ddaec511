package bootstrap

import (
	"context"
	"log/slog"

	"booking-service/internal/infra/eventsvc"
	"booking-service/internal/infra/messaging"
	"booking-service/internal/pkg/config"
	"booking-service/internal/usecase/notify"
	"booking-service/internal/usecase/shared"

	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewBroker,
		fx.Annotate(
			eventsvc.NewClient,
			fx.As(new(shared.AvailabilityChecker)),
		),
		fx.Annotate(
			notify.NewPublisher,
			fx.As(new(shared.EventPublisher)),
		),
		notify.NewDispatcher,
	),
	fx.Invoke(startDispatcher),
)

// NewBroker does not dial; the first publish does.
func NewBroker(lc fx.Lifecycle, cfg config.RabbitMQConfig) notify.Broker {
	p := messaging.NewRabbitPublisher(cfg)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return p.Close()
		},
	})
	return p
}

func startDispatcher(lc fx.Lifecycle, d *notify.Dispatcher, cfg config.OutboxConfig, logger *slog.Logger) {
	if !cfg.Enabled {
		logger.Info("outbox dispatcher disabled")
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			d.Start(context.Background())
			logger.Info("outbox dispatcher started", "interval", cfg.Interval.String())
			return nil
		},
		OnStop: func(_ context.Context) error {
			d.Stop()
			return nil
		},
	})
}
