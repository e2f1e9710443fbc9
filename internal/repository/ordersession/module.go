package ordersession

import "go.uber.org/fx"

// Module provides the order session repository to Fx.
var Module = fx.Provide(NewRepository)
