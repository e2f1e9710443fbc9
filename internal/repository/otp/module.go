package otp

import "go.uber.org/fx"

// Module provides the OTP repository to Fx.
var Module = fx.Provide(NewRepository)
