package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticketing/internal/handler"
)

// Resources groups the CRUD handlers mounted by RegisterResources.
type Resources struct {
	Movies   *handler.MovieHandler
	Theatres *handler.TheatreHandler
	Reviews  *handler.ReviewHandler
	Tickets  *handler.TicketHandler
}

// crud is the shape shared by every resource handler.
type crud interface {
	List(echo.Context) error
	Create(echo.Context) error
	Get(echo.Context) error
	Update(echo.Context) error
	Delete(echo.Context) error
}

// RegisterResources mounts the four resource collections.  mw (typically
// the response cache) wraps every route of every collection.
func RegisterResources(e *echo.Echo, r Resources, mw ...echo.MiddlewareFunc) {
	mount(e.Group("/movies", mw...), r.Movies)
	mount(e.Group("/theaters", mw...), r.Theatres)
	mount(e.Group("/reviews", mw...), r.Reviews)
	mount(e.Group("/tickets", mw...), r.Tickets)
}

func mount(g *echo.Group, h crud) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
