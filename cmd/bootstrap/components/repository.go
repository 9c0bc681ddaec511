package components

import (
	"booking-service/internal/infra/uow"

	"go.uber.org/fx"
)

// Write-side repositories are built per transaction by the unit of work.
var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		uow.NewPostgresUoW,
	),
)
