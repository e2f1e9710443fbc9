package otp

import (
	"go.uber.org/fx"

	repo "github.com/officefood/officefood/internal/repository/otp"
)

// Module provides the OTP service to Fx.
var Module = fx.Options(
	fx.Provide(func(r *repo.Repository) Repository { return r }),
	fx.Provide(NewService),
	fx.Invoke(registerCleanup),
)
