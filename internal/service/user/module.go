package user

import (
	"go.uber.org/fx"

	repo "github.com/officefood/officefood/internal/repository/user"
)

// Module wires the user service into the application graph.
var Module = fx.Module("service.user",
	fx.Provide(func(r *repo.Repository) Repository { return r }),
	fx.Provide(NewService),
)
