package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticketing/internal/model"
	"github.com/iliyamo/movie-ticketing/internal/repository"
	"github.com/iliyamo/movie-ticketing/internal/serializer"
)

// MovieHandler serves /movies.
type MovieHandler struct {
	Movies *repository.MovieRepo
	Log    hclog.Logger
	Now    func() time.Time // clock used to derive the movie tag
}

func NewMovieHandler(movies *repository.MovieRepo, log hclog.Logger) *MovieHandler {
	return &MovieHandler{Movies: movies, Log: log, Now: time.Now}
}

// createMovieReq requires every field to be present; trailer_url may be
// empty or a non-http URL, in which case it is stored absent.
type createMovieReq struct {
	Title       *string `json:"title" validate:"required"`
	Genre       *string `json:"genre" validate:"required"`
	Director    *string `json:"director" validate:"required"`
	ReleaseDate *string `json:"release_date" validate:"required"`
	PosterImage *string `json:"poster_image" validate:"required"`
	TrailerURL  *string `json:"trailer_url" validate:"required"`
}

type patchMovieReq struct {
	Title       *string `json:"title"`
	Genre       *string `json:"genre"`
	Director    *string `json:"director"`
	ReleaseDate *string `json:"release_date"`
	PosterImage *string `json:"poster_image"`
	TrailerURL  *string `json:"trailer_url"`
}

// List: GET /movies
func (h *MovieHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	movies, err := h.Movies.List(ctx)
	if err != nil {
		h.Log.Error("list movies failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, serializer.Movies(movies))
}

// Create: POST /movies
func (h *MovieHandler) Create(c echo.Context) error {
	var req createMovieReq
	if err := bindJSON(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"validation errors"}})
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"validation errors"}})
	}

	m, err := model.NewMovie(model.MovieFields{
		Title:       *req.Title,
		Genre:       *req.Genre,
		Director:    *req.Director,
		ReleaseDate: *req.ReleaseDate,
		PosterImage: *req.PosterImage,
		TrailerURL:  *req.TrailerURL,
	}, h.Now())
	if err != nil {
		return failed(c, "Failed to create movie.", err)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Movies.Create(ctx, m); err != nil {
		h.Log.Warn("create movie failed", "error", err)
		return failed(c, "Failed to create movie.", err)
	}
	return c.JSON(http.StatusCreated, serializer.Movie(m))
}

// Get: GET /movies/:id
func (h *MovieHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFoundJSON(c, "Movie")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return notFoundJSON(c, "Movie")
		}
		h.Log.Error("get movie failed", "id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, serializer.Movie(m))
}

// Update: PATCH /movies/:id.  Only supplied fields change; the tag does
// not follow a new release date.
func (h *MovieHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFoundJSON(c, "Movie")
	}
	var req patchMovieReq
	if err := bindPatch(c, &req); err != nil {
		return patchRejected(c, "Failed to update movie.", err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	m, err := h.Movies.Update(ctx, id, model.MoviePatch{
		Title:       req.Title,
		Genre:       req.Genre,
		Director:    req.Director,
		ReleaseDate: req.ReleaseDate,
		PosterImage: req.PosterImage,
		TrailerURL:  req.TrailerURL,
	})
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return notFoundJSON(c, "Movie")
		}
		return failed(c, "Failed to update movie.", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Movie updated successfully.", "movie": serializer.Movie(m)})
}

// Delete: DELETE /movies/:id, cascading to tickets and reviews.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFoundJSON(c, "Movie")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Movies.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return notFoundJSON(c, "Movie")
		}
		return failed(c, "Failed to delete movie.", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Movie deleted successfully."})
}
