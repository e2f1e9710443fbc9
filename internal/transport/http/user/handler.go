package user

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/officefood/officefood/internal/dto"
	"github.com/officefood/officefood/internal/presentation/http/response"
	authsvc "github.com/officefood/officefood/internal/service/auth"
	service "github.com/officefood/officefood/internal/service/user"
	"github.com/officefood/officefood/internal/transport/http/middleware"
	"github.com/officefood/officefood/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/officefood/officefood/transport/http/user")

// Handler exposes user profile endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a user Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler, auth *authsvc.Service) {
	g := e.Group("/users", middleware.RequireAuth(auth))
	g.GET("/profile", h.profile)
	g.PUT("/profile", h.updateProfile)
}

func (h *Handler) profile(c echo.Context) error {
	b := response.New(c)

	user := middleware.CurrentUser(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "users.profile", trace.WithAttributes(attribute.Int64("user.id", user.ID)))
	defer span.End()

	profile, err := h.svc.Profile(ctx, user.ID)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.UserFromEntity(profile)).Build()
}

func (h *Handler) updateProfile(c echo.Context) error {
	b := response.New(c)

	user := middleware.CurrentUser(c)

	var payload struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "users.updateProfile", trace.WithAttributes(attribute.Int64("user.id", user.ID)))
	defer span.End()

	updated, err := h.svc.UpdateProfile(ctx, user.ID, payload.Name, payload.Email)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.UserFromEntity(updated)).Build()
}
