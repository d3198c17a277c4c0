package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/kmalov/auth_service/internal/middleware"
)

type UserHTTP struct{}

// Me returns the profile of the authenticated user.
func (h *UserHTTP) Me(c echo.Context) error {
	user := mw.UserFrom(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return c.JSON(http.StatusOK, user)
}
