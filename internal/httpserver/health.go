package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kmalov/auth_service/internal/logging"
	"github.com/kmalov/auth_service/internal/repo"
	"github.com/kmalov/auth_service/internal/transport"
)

type HealthHTTP struct {
	Repo *repo.GormRepo
}

// Check probes the database and reports per-service status. Not meant
// for tight polling loops; liveness probes should use /health/live.
func (h *HealthHTTP) Check(c echo.Context) error {
	ctx := c.Request().Context()

	out := transport.HealthResponse{
		Status:   "okay",
		Services: transport.HealthServices{Database: "okay"},
	}

	if err := h.Repo.Ping(ctx); err != nil {
		logging.FromContext(ctx).Error("database health-check failed", "error", err)
		out.Status = "error"
		out.Services.Database = "error"
		return c.JSON(http.StatusServiceUnavailable, out)
	}

	return c.JSON(http.StatusOK, out)
}
