package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kmalov/auth_service/internal/logging"
	"github.com/kmalov/auth_service/internal/service"
	"github.com/kmalov/auth_service/internal/transport"
)

// RequestReset mails a password reset link. Unlike login, this endpoint
// does reveal whether the email is registered; the 404 is part of the
// contract so users notice typos in their address.
func (h *AuthHTTP) RequestReset(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.request_reset")

	var req transport.ResetRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("request_reset_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.RequestPasswordReset(ctx, req.Email); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("request_reset_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "No account found for email.")
		}
		if errors.Is(err, service.ErrBanned) {
			l.Warn("request_reset_failed", "status", 403, "error", err)
			return echo.NewHTTPError(http.StatusForbidden, "This account has been banned")
		}
		if errors.Is(err, service.ErrDelivery) {
			l.Error("request_reset_failed", "status", 502, "error", err)
			return echo.NewHTTPError(http.StatusBadGateway,
				"Unable to send password reset email; please contact the site owner.")
		}
		l.Error("request_reset_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot request password reset")
	}

	l.Info("request_reset_successful")
	return c.JSON(http.StatusOK, transport.DetailResponse{
		Detail: "A link to reset your password has been sent to your email!",
	})
}

// CompleteReset consumes a reset identifier and sets the new password.
// A malformed identifier gets the same 404 as an unknown one; there is
// nothing useful to tell the two cases apart from outside.
func (h *AuthHTTP) CompleteReset(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.complete_reset")

	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		l.Warn("complete_reset_failed", "status", 404, "reason", "token is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Token not found. Please request a new password reset.")
	}

	var req transport.SetPasswordRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("complete_reset_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.ResetPassword(ctx, token, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("complete_reset_failed", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "Token not found. Please request a new password reset.")
		}
		l.Error("complete_reset_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot reset password")
	}

	l.Info("complete_reset_successful")
	return c.JSON(http.StatusOK, transport.AuthTokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
	})
}
