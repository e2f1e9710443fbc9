package auth

import (
	"regexp"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	"github.com/officefood/officefood/internal/dto"
	"github.com/officefood/officefood/internal/presentation/http/response"
	service "github.com/officefood/officefood/internal/service/auth"
	"github.com/officefood/officefood/internal/transport/http/middleware"
	"github.com/officefood/officefood/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/officefood/officefood/transport/http/auth")

var (
	phonePattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
	codePattern  = regexp.MustCompile(`^\d{6}$`)
)

// Handler exposes authentication endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an auth Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/auth")
	g.POST("/send-otp", h.sendOTP)
	g.POST("/verify-otp", h.verifyOTP)
	g.POST("/refresh", h.refresh)
	g.POST("/logout", h.logout, middleware.RequireAuth(h.svc))
}

func (h *Handler) sendOTP(c echo.Context) error {
	b := response.New(c)

	var payload struct {
		Phone string `json:"phone"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if !phonePattern.MatchString(payload.Phone) {
		return b.WithError(errorbank.BadRequest("phone must be in E.164 format")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "auth.sendOTP")
	defer span.End()

	result, err := h.svc.SendOTP(ctx, payload.Phone)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.SendOTPResponse{
		Message:   result.Message,
		ExpiresIn: result.ExpiresIn,
		OTP:       result.OTP,
	}).Build()
}

func (h *Handler) verifyOTP(c echo.Context) error {
	b := response.New(c)

	var payload struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if !phonePattern.MatchString(payload.Phone) {
		return b.WithError(errorbank.BadRequest("phone must be in E.164 format")).Build()
	}
	if !codePattern.MatchString(payload.Code) {
		return b.WithError(errorbank.BadRequest("code must be six digits")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "auth.verifyOTP")
	defer span.End()

	result, err := h.svc.VerifyOTP(ctx, payload.Phone, payload.Code)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.VerifyOTPResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         dto.UserFromEntity(result.User),
	}).Build()
}

func (h *Handler) refresh(c echo.Context) error {
	b := response.New(c)

	var payload struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if payload.RefreshToken == "" {
		return b.WithError(errorbank.BadRequest("refreshToken is required")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "auth.refresh")
	defer span.End()

	pair, err := h.svc.Refresh(ctx, payload.RefreshToken)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}).Build()
}

// logout acknowledges the request; tokens are stateless, so discarding them
// is the client's responsibility.
func (h *Handler) logout(c echo.Context) error {
	b := response.New(c)

	return b.WithData(map[string]string{"message": "Logged out successfully"}).Build()
}
