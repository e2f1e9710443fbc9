package ordersession

import (
	"go.uber.org/fx"

	repo "github.com/officefood/officefood/internal/repository/ordersession"
)

// Module provides the order session service to Fx.
var Module = fx.Options(
	fx.Provide(func(r *repo.Repository) Repository { return r }),
	fx.Provide(NewService),
)
