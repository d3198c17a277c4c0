package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kmalov/auth_service/internal/logging"
	mw "github.com/kmalov/auth_service/internal/middleware"
	"github.com/kmalov/auth_service/internal/service"
	"github.com/kmalov/auth_service/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

// LogIn trades a username/password form for a bearer token. The username
// field carries the registered email; the response intentionally does not
// reveal whether it was the email or the password that failed.
func (h *AuthHTTP) LogIn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.log_in")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrCredentials) {
			l.Warn("login_failed", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect username or password")
		}
		if errors.Is(err, service.ErrBanned) {
			l.Warn("login_failed", "status", 403, "error", err)
			return echo.NewHTTPError(http.StatusForbidden, "This account has been banned")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot log in")
	}

	l.Info("login_successful")
	return c.JSON(http.StatusOK, transport.AuthTokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
		User:        res.User,
	})
}

// LogOut revokes the presented token for the rest of its lifetime.
func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.log_out")

	user := mw.UserFrom(c)
	claims := mw.ClaimsFrom(c)
	if user == nil || claims == nil {
		l.Error("logout_failed", "status", 401, "reason", "no authenticated user on context")
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	if err := h.Svc.Logout(ctx, user, claims); err != nil {
		l.Error("logout_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot revoke token")
	}

	l.Info("logout_successful")
	return c.JSON(http.StatusOK, transport.DetailResponse{Detail: "Token successfully revoked."})
}
