package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/middleware"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/model"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/service"
)

// OrganizerEventHandler serves the event management endpoints used by
// organizers and admins.
type OrganizerEventHandler struct {
	Events   *service.EventService
	Bookings *service.BookingService
	Stats    *service.StatsService
}

func NewOrganizerEventHandler(events *service.EventService, bookings *service.BookingService, stats *service.StatsService) *OrganizerEventHandler {
	return &OrganizerEventHandler{Events: events, Bookings: bookings, Stats: stats}
}

type eventReq struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Venue       string    `json:"venue"`
	City        string    `json:"city"`
	CapacityMax int       `json:"capacity_max"`
	PriceCents  int64     `json:"price_cents"`
}

func (r eventReq) toInput() service.EventInput {
	return service.EventInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    model.ParseCategory(r.Category),
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		Venue:       r.Venue,
		City:        r.City,
		CapacityMax: r.CapacityMax,
		PriceCents:  r.PriceCents,
	}
}

// Create handles POST /v1/organizer/events.  New events start as
// drafts.
func (h *OrganizerEventHandler) Create(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	e, err := h.Events.Create(ctx, req.toInput(), actor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toEventPart(e))
}

// Update handles PUT /v1/organizer/events/:id.
func (h *OrganizerEventHandler) Update(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	e, err := h.Events.Update(ctx, id, req.toInput(), actor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toEventPart(e))
}

// Publish handles POST /v1/organizer/events/:id/publish.
func (h *OrganizerEventHandler) Publish(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	e, err := h.Events.Publish(ctx, id, actor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toEventPart(e))
}

// Cancel handles POST /v1/organizer/events/:id/cancel.
func (h *OrganizerEventHandler) Cancel(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	e, err := h.Events.Cancel(ctx, id, actor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toEventPart(e))
}

// Delete handles DELETE /v1/organizer/events/:id.
func (h *OrganizerEventHandler) Delete(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Events.Delete(ctx, id, actor); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine handles GET /v1/organizer/events: the actor's own events in
// every status.
func (h *OrganizerEventHandler) ListMine(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	events, err := h.Events.ListByOrganizer(ctx, actor.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"events": toEventParts(events)})
}

// Reservations handles GET /v1/organizer/events/:id/reservations.
func (h *OrganizerEventHandler) Reservations(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rs, err := h.Bookings.ListByEvent(ctx, id, actor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": toReservationParts(rs)})
}

// MyStats handles GET /v1/organizer/stats.
func (h *OrganizerEventHandler) MyStats(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	st, err := h.Stats.Organizer(ctx, actor.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, st)
}
