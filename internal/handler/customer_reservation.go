package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/config"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/middleware"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/model"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/queue"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/service"
)

// CustomerReservationHandler serves the booking endpoints used by
// authenticated customers.
type CustomerReservationHandler struct {
	Cfg      config.Config
	Events   *service.EventService
	Bookings *service.BookingService
	Stats    *service.StatsService
}

func NewCustomerReservationHandler(cfg config.Config, events *service.EventService, bookings *service.BookingService, stats *service.StatsService) *CustomerReservationHandler {
	return &CustomerReservationHandler{Cfg: cfg, Events: events, Bookings: bookings, Stats: stats}
}

type createReservationReq struct {
	EventID uint64 `json:"event_id"`
	Seats   int    `json:"seats"`
	Comment string `json:"comment"`
}

type reservationPart struct {
	ID          uint64    `json:"id"`
	Code        string    `json:"code"`
	EventID     uint64    `json:"event_id"`
	UserID      uint64    `json:"user_id"`
	Seats       int       `json:"seats"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
	Comment     string    `json:"comment,omitempty"`
	ReservedAt  time.Time `json:"reserved_at"`
}

func toReservationPart(r model.Reservation) reservationPart {
	return reservationPart{
		ID:          r.ID,
		Code:        r.Code,
		EventID:     r.EventID,
		UserID:      r.UserID,
		Seats:       r.Seats,
		AmountCents: r.AmountCents,
		Status:      string(r.Status),
		Comment:     r.Comment,
		ReservedAt:  r.ReservedAt,
	}
}

func toReservationParts(rs []model.Reservation) []reservationPart {
	out := make([]reservationPart, 0, len(rs))
	for _, r := range rs {
		out = append(out, toReservationPart(r))
	}
	return out
}

// Create handles POST /v1/reservations.
func (h *CustomerReservationHandler) Create(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	r, err := h.Bookings.Create(ctx, req.EventID, req.Seats, req.Comment, actor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toReservationPart(r))
}

// Confirm handles POST /v1/reservations/:id/confirm.  On success a
// confirmation event is published to the broker; publish failures are
// logged and never fail the request.
func (h *CustomerReservationHandler) Confirm(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	r, err := h.Bookings.Confirm(ctx, id, actor)
	if err != nil {
		return fail(c, err)
	}

	if e, err := h.Events.Get(ctx, r.EventID); err == nil {
		ev := queue.ReservationConfirmedEvent{
			ReservationID: r.ID,
			Code:          r.Code,
			UserID:        r.UserID,
			EventID:       e.ID,
			EventTitle:    e.Title,
			Venue:         e.Venue,
			City:          e.City,
			StartsAt:      e.StartsAt.Format(time.RFC3339),
			Seats:         r.Seats,
			AmountCents:   r.AmountCents,
			ConfirmedAt:   r.UpdatedAt.Format(time.RFC3339),
		}
		if err := queue.PublishReservationConfirmed(ctx, h.Cfg.AMQPURL, ev); err != nil {
			c.Logger().Warnf("publish confirmation for reservation %d failed: %v", r.ID, err)
		}
	}

	return c.JSON(http.StatusOK, toReservationPart(r))
}

// Cancel handles POST /v1/reservations/:id/cancel.
func (h *CustomerReservationHandler) Cancel(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	r, err := h.Bookings.Cancel(ctx, id, actor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toReservationPart(r))
}

// Get handles GET /v1/reservations/:id.
func (h *CustomerReservationHandler) Get(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	r, err := h.Bookings.Get(ctx, id, actor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toReservationPart(r))
}

// FindByCode handles GET /v1/reservations/code/:code.
func (h *CustomerReservationHandler) FindByCode(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	code := c.Param("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	r, err := h.Bookings.FindByCode(ctx, code, actor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toReservationPart(r))
}

// Summary handles GET /v1/reservations/code/:code/summary, returning
// the reservation joined with the event it books.
func (h *CustomerReservationHandler) Summary(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	code := c.Param("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	sum, err := h.Bookings.Summary(ctx, code, actor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}

// ListMine handles GET /v1/reservations.
func (h *CustomerReservationHandler) ListMine(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rs, err := h.Bookings.ListByUser(ctx, actor.ID, actor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": toReservationParts(rs)})
}

// MyStats handles GET /v1/reservations/stats.
func (h *CustomerReservationHandler) MyStats(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	st, err := h.Stats.User(ctx, actor.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, st)
}
