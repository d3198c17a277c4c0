package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kmalov/auth_service/internal/logging"
	"github.com/kmalov/auth_service/internal/models"
	"github.com/kmalov/auth_service/internal/service"
	"github.com/kmalov/auth_service/internal/tokens"
)

const (
	ctxUserKey   = "auth_user"
	ctxClaimsKey = "auth_claims"
)

type TokenAuth struct {
	Svc *service.AuthService
}

func NewTokenAuth(svc *service.AuthService) *TokenAuth {
	return &TokenAuth{Svc: svc}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get(echo.HeaderAuthorization)
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth runs the full token validation chain and stashes the
// resolved user and claims on the echo context for handlers downstream.
func (m *TokenAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "require_auth")

		raw, ok := bearerToken(c.Request())
		if !ok {
			l.Warn("auth_failed", "status", 401, "reason", "missing bearer token")
			return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
		}

		user, claims, err := m.Svc.Authenticate(ctx, raw)
		if err != nil {
			if errors.Is(err, service.ErrBanned) {
				l.Warn("auth_failed", "status", 403, "reason", "user banned")
				return echo.NewHTTPError(http.StatusForbidden, "This account has been banned")
			}
			if errors.Is(err, service.ErrCredentials) {
				l.Warn("auth_failed", "status", 401, "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
			}
			l.Error("auth_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot validate token")
		}

		c.Set(ctxUserKey, user)
		c.Set(ctxClaimsKey, claims)

		return next(c)
	}
}

// AnonymousOnly rejects requests that already carry a usable token.
// Login and password reset only make sense for logged out callers. A
// token that fails validation for any reason counts as anonymous here.
func (m *TokenAuth) AnonymousOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if raw, ok := bearerToken(c.Request()); ok {
			if _, _, err := m.Svc.Authenticate(c.Request().Context(), raw); err == nil {
				return echo.NewHTTPError(http.StatusForbidden, "Already authenticated")
			}
		}
		return next(c)
	}
}

func UserFrom(c echo.Context) *models.User {
	if u, ok := c.Get(ctxUserKey).(*models.User); ok {
		return u
	}
	return nil
}

func ClaimsFrom(c echo.Context) *tokens.AccessClaims {
	if cl, ok := c.Get(ctxClaimsKey).(*tokens.AccessClaims); ok {
		return cl
	}
	return nil
}
