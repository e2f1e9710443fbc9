package billing

import (
	"go.uber.org/fx"

	repo "github.com/officefood/officefood/internal/repository/order"
)

// Module wires the billing service into the application graph.
var Module = fx.Module("service.billing",
	fx.Provide(func(r *repo.Repository) Orders { return r }),
	fx.Provide(NewService),
)
