package menu

import (
	"go.uber.org/fx"

	repo "github.com/officefood/officefood/internal/repository/menuitem"
)

// Module provides the menu service to Fx.
var Module = fx.Options(
	fx.Provide(func(r *repo.Repository) Repository { return r }),
	fx.Provide(NewService),
)
