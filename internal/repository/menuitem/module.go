package menuitem

import "go.uber.org/fx"

// Module provides the menu item repository to Fx.
var Module = fx.Provide(NewRepository)
