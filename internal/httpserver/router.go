package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/kmalov/auth_service/internal/middleware"
)

type Deps struct {
	AuthHandler   *AuthHTTP
	UserHandler   *UserHTTP
	HealthHandler *HealthHTTP
	TokenAuth     *mw.TokenAuth
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health-check", d.HealthHandler.Check)

	anonymous := e.Group("", d.TokenAuth.AnonymousOnly)
	anonymous.POST("/token", d.AuthHandler.LogIn)
	anonymous.POST("/reset", d.AuthHandler.RequestReset)
	anonymous.POST("/reset/:token", d.AuthHandler.CompleteReset)

	private := e.Group("", d.TokenAuth.RequireAuth)
	private.DELETE("/token", d.AuthHandler.LogOut)
	private.GET("/users/me", d.UserHandler.Me)
}
