package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/middleware"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/model"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/service"
)

// AdminHandler serves the administration endpoints: account
// management and platform-wide reporting.
type AdminHandler struct {
	Users    *service.UserService
	Events   *service.EventService
	Bookings *service.BookingService
	Stats    *service.StatsService
}

func NewAdminHandler(users *service.UserService, events *service.EventService, bookings *service.BookingService, stats *service.StatsService) *AdminHandler {
	return &AdminHandler{Users: users, Events: events, Bookings: bookings, Stats: stats}
}

type roleReq struct {
	Role string `json:"role"`
}
type activeReq struct {
	Active bool `json:"active"`
}

// ListUsers handles GET /v1/admin/users with an optional ?role filter.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	var (
		users []model.User
		err   error
	)
	if role := c.QueryParam("role"); role != "" {
		users, err = h.Users.ListByRole(ctx, model.Role(role), actor)
	} else {
		users, err = h.Users.List(ctx, actor)
	}
	if err != nil {
		return fail(c, err)
	}
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, toUserPart(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// ChangeRole handles PUT /v1/admin/users/:id/role.
func (h *AdminHandler) ChangeRole(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req roleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.ChangeRole(ctx, id, model.Role(req.Role), actor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toUserPart(u))
}

// SetActive handles PUT /v1/admin/users/:id/active.
func (h *AdminHandler) SetActive(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req activeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.SetActive(ctx, id, req.Active, actor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toUserPart(u))
}

// ListEvents handles GET /v1/admin/events: every event in every
// status.
func (h *AdminHandler) ListEvents(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	events, err := h.Events.List(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"events": toEventParts(events)})
}

// ListReservations handles GET /v1/admin/reservations: every
// reservation on the platform, newest first.
func (h *AdminHandler) ListReservations(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rs, err := h.Bookings.ListAll(ctx, actor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": toReservationParts(rs)})
}

// GlobalStats handles GET /v1/admin/stats.
func (h *AdminHandler) GlobalStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	st, err := h.Stats.Global(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, st)
}
