package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticketing/internal/model"
	"github.com/iliyamo/movie-ticketing/internal/repository"
	"github.com/iliyamo/movie-ticketing/internal/serializer"
)

// TicketEvents receives every ticket that was committed.  Publishing is
// best effort and never affects the response.
type TicketEvents interface {
	PublishTicketPurchased(ctx context.Context, t *model.Ticket) error
}

// TicketHandler serves /tickets.
type TicketHandler struct {
	Tickets *repository.TicketRepo
	Events  TicketEvents // optional
	Log     hclog.Logger
}

func NewTicketHandler(tickets *repository.TicketRepo, events TicketEvents, log hclog.Logger) *TicketHandler {
	return &TicketHandler{Tickets: tickets, Events: events, Log: log}
}

type createTicketReq struct {
	UserID       *uint64  `json:"user_id" validate:"required"`
	MovieID      *uint64  `json:"movie_id" validate:"required"`
	TheatreID    *uint64  `json:"theatre_id" validate:"required"`
	Price        *float64 `json:"price" validate:"required"`
	PurchaseDate *string  `json:"purchase_date" validate:"required"`
	Screen       *int     `json:"screen" validate:"required"`
	Quantity     *int     `json:"quantity" validate:"required"`
	Showtime     *string  `json:"showtime" validate:"required"`
}

type patchTicketReq struct {
	UserID       *uint64  `json:"user_id"`
	MovieID      *uint64  `json:"movie_id"`
	TheatreID    *uint64  `json:"theatre_id"`
	Price        *float64 `json:"price"`
	PurchaseDate *string  `json:"purchase_date"`
	Screen       *int     `json:"screen"`
	Quantity     *int     `json:"quantity"`
	Showtime     *string  `json:"showtime"`
}

func (h *TicketHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	tickets, err := h.Tickets.List(ctx)
	if err != nil {
		h.Log.Error("list tickets failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, serializer.TicketsWithRelations(tickets))
}

func (h *TicketHandler) Create(c echo.Context) error {
	var req createTicketReq
	if err := bindJSON(c, &req); err != nil {
		return invalidBody(c)
	}
	if err := validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Validation error: Missing required fields."})
	}
	t, err := model.NewTicket(model.TicketFields{
		Quantity:     *req.Quantity,
		Price:        *req.Price,
		PurchaseDate: *req.PurchaseDate,
		Showtime:     *req.Showtime,
		Screen:       *req.Screen,
		UserID:       *req.UserID,
		MovieID:      *req.MovieID,
		TheatreID:    *req.TheatreID,
	})
	if err != nil {
		return failed(c, "Failed to create ticket.", err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Tickets.Create(ctx, t); err != nil {
		h.Log.Warn("create ticket failed", "error", err)
		return failed(c, "Failed to create ticket.", err)
	}
	h.publish(t)
	return c.JSON(http.StatusCreated, echo.Map{"message": "Ticket created successfully.", "ticket": serializer.Ticket(t)})
}

// publish hands the committed ticket to Events off the request path.
func (h *TicketHandler) publish(t *model.Ticket) {
	if h.Events == nil {
		return
	}
	snapshot := *t
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.Events.PublishTicketPurchased(ctx, &snapshot); err != nil {
			h.Log.Warn("publish ticket event failed", "ticket_id", snapshot.ID, "error", err)
		}
	}()
}

func (h *TicketHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFoundJSON(c, "Ticket")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	t, err := h.Tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return notFoundJSON(c, "Ticket")
		}
		h.Log.Error("get ticket failed", "id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, serializer.TicketWithRelations(t))
}

func (h *TicketHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFoundJSON(c, "Ticket")
	}
	var req patchTicketReq
	if err := bindPatch(c, &req); err != nil {
		return patchRejected(c, "Failed to update ticket.", err)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	t, err := h.Tickets.Update(ctx, id, model.TicketPatch{
		Quantity:     req.Quantity,
		Price:        req.Price,
		PurchaseDate: req.PurchaseDate,
		Showtime:     req.Showtime,
		Screen:       req.Screen,
		UserID:       req.UserID,
		MovieID:      req.MovieID,
		TheatreID:    req.TheatreID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return notFoundJSON(c, "Ticket")
		}
		return failed(c, "Failed to update ticket.", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Ticket updated successfully.", "ticket": serializer.Ticket(t)})
}

func (h *TicketHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFoundJSON(c, "Ticket")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return notFoundJSON(c, "Ticket")
		}
		return failed(c, "Failed to delete ticket.", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Ticket deleted successfully."})
}
