package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/iliyamo/movie-ticketing/internal/handler"
)

// RegisterRoutes registers the banner page and the health check.  Neither
// is cached or depends on a session.
func RegisterRoutes(e *echo.Echo, db *gorm.DB) {
	e.GET("/", handler.Index)
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers the session endpoints.  The session middleware
// installed on the Echo instance has already resolved the cookie by the
// time these run.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	e.POST("/signup", a.Signup)
	e.POST("/login", a.Login)
	e.DELETE("/logout", a.Logout)
	e.DELETE("/clear", a.Clear)
	e.GET("/check_session", a.CheckSession)
}
