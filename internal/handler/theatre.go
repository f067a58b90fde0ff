package handler

import (
	"errors"
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticketing/internal/model"
	"github.com/iliyamo/movie-ticketing/internal/repository"
	"github.com/iliyamo/movie-ticketing/internal/serializer"
)

// TheatreHandler serves /theaters.
type TheatreHandler struct {
	Theatres *repository.TheatreRepo
	Log      hclog.Logger
}

func NewTheatreHandler(theatres *repository.TheatreRepo, log hclog.Logger) *TheatreHandler {
	return &TheatreHandler{Theatres: theatres, Log: log}
}

type createTheatreReq struct {
	Name     *string `json:"name" validate:"required"`
	Location *string `json:"location" validate:"required"`
	Capacity *int    `json:"capacity" validate:"required"`
}

type patchTheatreReq struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Capacity *int    `json:"capacity"`
}

func (h *TheatreHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	theatres, err := h.Theatres.List(ctx)
	if err != nil {
		h.Log.Error("list theatres failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, serializer.Theatres(theatres))
}

func (h *TheatreHandler) Create(c echo.Context) error {
	var req createTheatreReq
	if err := bindJSON(c, &req); err != nil {
		return invalidBody(c)
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Validation error: Missing required fields."})
	}
	t, err := model.NewTheatre(model.TheatreFields{Name: *req.Name, Location: *req.Location, Capacity: *req.Capacity})
	if err != nil {
		return failed(c, "Failed to create theatre.", err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Theatres.Create(ctx, t); err != nil {
		h.Log.Warn("create theatre failed", "error", err)
		return failed(c, "Failed to create theatre.", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Theater created successfully.", "theatre": serializer.Theatre(t)})
}

func (h *TheatreHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFoundJSON(c, "Theater")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	t, err := h.Theatres.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTheatreNotFound) {
			return notFoundJSON(c, "Theater")
		}
		h.Log.Error("get theatre failed", "id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, serializer.Theatre(t))
}

func (h *TheatreHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFoundJSON(c, "Theater")
	}
	var req patchTheatreReq
	if err := bindPatch(c, &req); err != nil {
		return patchRejected(c, "Failed to update theatre.", err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	t, err := h.Theatres.Update(ctx, id, model.TheatrePatch{Name: req.Name, Location: req.Location, Capacity: req.Capacity})
	if err != nil {
		if errors.Is(err, repository.ErrTheatreNotFound) {
			return notFoundJSON(c, "Theater")
		}
		return failed(c, "Failed to update theatre.", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Theater updated successfully.", "theatre": serializer.Theatre(t)})
}

func (h *TheatreHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFoundJSON(c, "Theater")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Theatres.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTheatreNotFound) {
			return notFoundJSON(c, "Theater")
		}
		return failed(c, "Failed to delete theatre.", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Theater deleted successfully."})
}
