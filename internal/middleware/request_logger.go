package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kmalov/auth_service/internal/logging"
)

// RequestLogger builds a per-request logger, carries it in the request
// context for handlers and services, and writes one completion line per
// request, levelled by status class. Auth failures are routine traffic,
// so a 401 logs at Warn, not Error.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				// Generated by the RequestID middleware when the
				// client sent none.
				rid = c.Response().Header().Get(echo.HeaderXRequestID)
			}

			// The route pattern, not the raw URL: /reset/:token carries
			// the reset identifier in the path and it must not reach
			// the logs.
			l := base.With(
				"request_id", rid,
				"method", req.Method,
				"path", c.Path(),
				"remote_ip", c.RealIP(),
			)

			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}

			status := c.Response().Status
			args := []any{
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes_out", c.Response().Size,
			}
			if err != nil {
				args = append(args, "error", err.Error())
			}

			switch {
			case status >= 500:
				l.Error("request completed", args...)
			case status >= 400:
				l.Warn("request completed", args...)
			default:
				l.Info("request completed", args...)
			}
			return nil
		}
	}
}
