package order

import (
	"go.uber.org/fx"

	menurepo "github.com/officefood/officefood/internal/repository/menuitem"
	repo "github.com/officefood/officefood/internal/repository/order"
	sessionrepo "github.com/officefood/officefood/internal/repository/ordersession"
)

// Module wires the order service into the application graph.
var Module = fx.Module("service.order",
	fx.Provide(func(r *repo.Repository) Repository { return r }),
	fx.Provide(func(r *sessionrepo.Repository) Sessions { return r }),
	fx.Provide(func(r *menurepo.Repository) MenuItems { return r }),
	fx.Provide(NewService),
)
