package auth

import (
	"go.uber.org/fx"

	userrepo "github.com/officefood/officefood/internal/repository/user"
	otpsvc "github.com/officefood/officefood/internal/service/otp"
)

// Module provides the auth service to Fx.
var Module = fx.Options(
	fx.Provide(func(r *userrepo.Repository) Users { return r }),
	fx.Provide(func(s *otpsvc.Service) OTP { return s }),
	fx.Provide(NewService),
)
