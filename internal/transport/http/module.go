package http

import (
	"go.uber.org/fx"

	authtransport "github.com/officefood/officefood/internal/transport/http/auth"
	billingtransport "github.com/officefood/officefood/internal/transport/http/billing"
	menutransport "github.com/officefood/officefood/internal/transport/http/menu"
	ordertransport "github.com/officefood/officefood/internal/transport/http/order"
	usertransport "github.com/officefood/officefood/internal/transport/http/user"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	authtransport.Module,
	billingtransport.Module,
	menutransport.Module,
	ordertransport.Module,
	usertransport.Module,
)
