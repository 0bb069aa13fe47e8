package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/model"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/service"
)

// PublicEventHandler serves the unauthenticated catalogue: browsing,
// search and seat availability.
type PublicEventHandler struct {
	Events *service.EventService
}

func NewPublicEventHandler(events *service.EventService) *PublicEventHandler {
	return &PublicEventHandler{Events: events}
}

type eventPart struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Venue       string    `json:"venue"`
	City        string    `json:"city"`
	CapacityMax int       `json:"capacity_max"`
	PriceCents  int64     `json:"price_cents"`
	OrganizerID uint64    `json:"organizer_id"`
	Status      string    `json:"status"`
}

func toEventPart(e model.Event) eventPart {
	return eventPart{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Category:    string(e.Category),
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		Venue:       e.Venue,
		City:        e.City,
		CapacityMax: e.CapacityMax,
		PriceCents:  e.PriceCents,
		OrganizerID: e.OrganizerID,
		Status:      string(e.Status),
	}
}

func toEventParts(events []model.Event) []eventPart {
	out := make([]eventPart, 0, len(events))
	for _, e := range events {
		out = append(out, toEventPart(e))
	}
	return out
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// ListAvailable handles GET /v1/events: the published, upcoming
// catalogue.
func (h *PublicEventHandler) ListAvailable(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	events, err := h.Events.ListAvailable(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"events": toEventParts(events)})
}

// Search handles GET /v1/events/search with optional category, city,
// keyword and price filters.  Prices are given in cents.
func (h *PublicEventHandler) Search(c echo.Context) error {
	q := service.EventSearch{
		Category:      model.EventCategory(c.QueryParam("category")),
		City:          c.QueryParam("city"),
		Keyword:       c.QueryParam("q"),
		MaxPriceCents: -1,
	}
	if v := c.QueryParam("min_price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_price"})
		}
		q.MinPriceCents = n
	}
	if v := c.QueryParam("max_price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_price"})
		}
		q.MaxPriceCents = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	events, err := h.Events.Search(ctx, q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"events": toEventParts(events)})
}

// Popular handles GET /v1/events/popular.
func (h *PublicEventHandler) Popular(c echo.Context) error {
	limit := 10
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	events, err := h.Events.Popular(ctx, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"events": toEventParts(events)})
}

// Get handles GET /v1/events/:id.
func (h *PublicEventHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	e, err := h.Events.Get(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toEventPart(e))
}

// Availability handles GET /v1/events/:id/availability.
func (h *PublicEventHandler) Availability(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	available, err := h.Events.AvailableSeats(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"event_id": id, "available_seats": available})
}
