package handler // declare the package name; contains HTTP handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/iliyamo/movie-ticketing/internal/database"
)

// Index serves the banner page at /.
func Index(c echo.Context) error {
	return c.HTML(http.StatusOK, "<h1>Project Server</h1>")
}

// Health is a health-check endpoint used by load balancers and monitoring
// systems.  It answers 200 "ok" when the database responds and 503
// otherwise.
func Health(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := dbCtx(c)
		defer cancel()
		if err := database.Ping(ctx, db); err != nil {
			return c.String(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.String(http.StatusOK, "ok")
	}
}
