package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/officefood/officefood/internal/entity"
	"github.com/officefood/officefood/internal/presentation/http/response"
	authsvc "github.com/officefood/officefood/internal/service/auth"
	"github.com/officefood/officefood/pkg/errorbank"
)

const (
	userContextKey   = "auth.user"
	claimsContextKey = "auth.claims"
)

// RequireAuth parses the bearer credential, confirms it still resolves to an
// active user, and stores both claims and user on the request context.
func RequireAuth(svc *authsvc.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			b := response.New(c)

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return b.WithError(errorbank.Unauthorized("missing bearer credential")).Build()
			}

			claims, err := svc.ParseAccessToken(token)
			if err != nil {
				return b.WithError(err).Build()
			}

			user, err := svc.Validate(c.Request().Context(), claims)
			if err != nil {
				return b.WithError(err).Build()
			}

			c.Set(claimsContextKey, claims)
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user stored by RequireAuth.
func CurrentUser(c echo.Context) *entity.User {
	user, _ := c.Get(userContextKey).(*entity.User)
	return user
}

// CurrentClaims returns the parsed credential claims stored by RequireAuth.
func CurrentClaims(c echo.Context) *authsvc.Claims {
	claims, _ := c.Get(claimsContextKey).(*authsvc.Claims)
	return claims
}
