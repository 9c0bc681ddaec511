package bootstrap

import (
	"booking-service/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
	ConfigSections,
)

// ConfigSections exposes the sections components depend on directly.
var ConfigSections = fx.Provide(
	func(cfg config.Config) config.EventServiceConfig { return cfg.EventService },
	func(cfg config.Config) config.RabbitMQConfig { return cfg.RabbitMQ },
	func(cfg config.Config) config.OutboxConfig { return cfg.Outbox },
)
