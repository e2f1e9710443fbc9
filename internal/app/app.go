package app

import (
	"go.uber.org/fx"

	"github.com/officefood/officefood/internal/cache"
	"github.com/officefood/officefood/internal/config"
	"github.com/officefood/officefood/internal/database"
	"github.com/officefood/officefood/internal/logger"
	"github.com/officefood/officefood/internal/messaging"
	"github.com/officefood/officefood/internal/observability"
	repomenuitem "github.com/officefood/officefood/internal/repository/menuitem"
	repoorder "github.com/officefood/officefood/internal/repository/order"
	repoordersession "github.com/officefood/officefood/internal/repository/ordersession"
	repootp "github.com/officefood/officefood/internal/repository/otp"
	repouser "github.com/officefood/officefood/internal/repository/user"
	httpserver "github.com/officefood/officefood/internal/server/http"
	serviceauth "github.com/officefood/officefood/internal/service/auth"
	servicebilling "github.com/officefood/officefood/internal/service/billing"
	servicemenu "github.com/officefood/officefood/internal/service/menu"
	serviceorder "github.com/officefood/officefood/internal/service/order"
	serviceordersession "github.com/officefood/officefood/internal/service/ordersession"
	serviceotp "github.com/officefood/officefood/internal/service/otp"
	serviceuser "github.com/officefood/officefood/internal/service/user"
	transporthttp "github.com/officefood/officefood/internal/transport/http"
	"github.com/officefood/officefood/internal/worker"
	workernotify "github.com/officefood/officefood/internal/worker/notify"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	repomenuitem.Module,
	repoorder.Module,
	repoordersession.Module,
	repootp.Module,
	repouser.Module,
	serviceauth.Module,
	servicebilling.Module,
	servicemenu.Module,
	serviceorder.Module,
	serviceordersession.Module,
	serviceotp.Module,
	serviceuser.Module,
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workernotify.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
