package components

import (
	"booking-service/internal/pkg/clock"
	"booking-service/internal/usecase"
	"booking-service/internal/usecase/commands"
	"booking-service/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
	usecaseOrchestrationModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
	),
)

var usecaseOrchestrationModule = fx.Module("usecase/orchestration",
	fx.Provide(
		usecase.NewBookingOrchestrator,
	),
)
