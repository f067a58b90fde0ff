package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticketing/internal/model"
	"github.com/iliyamo/movie-ticketing/internal/repository"
	"github.com/iliyamo/movie-ticketing/internal/serializer"
)

// ReviewHandler serves /reviews.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
	Log     hclog.Logger
	Now     func() time.Time
}

func NewReviewHandler(reviews *repository.ReviewRepo, log hclog.Logger) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews, Log: log, Now: time.Now}
}

type createReviewReq struct {
	Rating         *int    `json:"rating" validate:"required"`
	Comment        *string `json:"comment" validate:"required"`
	UserID         *uint64 `json:"user_id" validate:"required"`
	MovieID        *uint64 `json:"movie_id" validate:"required"`
	SubmissionDate *string `json:"submission_date"`
}

type patchReviewReq struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func reviewErrors(c echo.Context, status int, msgs ...string) error {
	return c.JSON(status, echo.Map{"errors": msgs})
}

func (h *ReviewHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	reviews, err := h.Reviews.List(ctx)
	if err != nil {
		h.Log.Error("list reviews failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, serializer.ReviewsWithRelations(reviews))
}

// Create: POST /reviews.  Missing fields answer 401, which existing
// clients depend on.
func (h *ReviewHandler) Create(c echo.Context) error {
	var req createReviewReq
	if err := bindJSON(c, &req); err != nil {
		return reviewErrors(c, http.StatusBadRequest, "Failed to create review.", err.Error())
	}
	if err := validate.Struct(req); err != nil {
		missing := missingFields(err)
		return reviewErrors(c, http.StatusUnauthorized,
			"Validation errors: Missing required fields: "+strings.Join(missing, ", "))
	}
	if *req.Rating < model.MinRating {
		return reviewErrors(c, http.StatusBadRequest, "Rating must be an integer above 0")
	}

	f := model.ReviewFields{
		Rating:  *req.Rating,
		Comment: *req.Comment,
		UserID:  *req.UserID,
		MovieID: *req.MovieID,
	}
	if req.SubmissionDate != nil && *req.SubmissionDate != "" {
		at, err := time.Parse(serializer.SubmissionDateLayout, *req.SubmissionDate)
		if err != nil {
			return reviewErrors(c, http.StatusBadRequest, "Failed to create review.",
				"submission_date must be in the format YYYY-MM-DD HH:MM:SS")
		}
		f.SubmittedAt = at
	}

	rv, err := model.NewReview(f, h.Now())
	if err != nil {
		return reviewErrors(c, http.StatusBadRequest, "Failed to create review.", err.Error())
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Reviews.Create(ctx, rv); err != nil {
		h.Log.Warn("create review failed", "error", err)
		return reviewErrors(c, http.StatusBadRequest, "Failed to create review.", err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Review added successfully.",
		"review":  serializer.ReviewWithRelations(rv),
	})
}

func (h *ReviewHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFoundJSON(c, "Review")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	rv, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return notFoundJSON(c, "Review")
		}
		h.Log.Error("get review failed", "id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, serializer.ReviewWithRelations(rv))
}

func (h *ReviewHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFoundJSON(c, "Review")
	}
	var req patchReviewReq
	if err := bindPatch(c, &req); err != nil {
		return patchRejected(c, "Failed to update review.", err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	rv, err := h.Reviews.Update(ctx, id, model.ReviewPatch{Rating: req.Rating, Comment: req.Comment})
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return notFoundJSON(c, "Review")
		}
		return failed(c, "Failed to update review.", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Review updated successfully.", "review": serializer.Review(rv)})
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFoundJSON(c, "Review")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return notFoundJSON(c, "Review")
		}
		return failed(c, "Failed to delete review.", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Review deleted successfully."})
}
