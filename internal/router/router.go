// Package router wires handlers, middleware and route groups onto the
// Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/config"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/handler"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/middleware"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/model"
)

// Handlers groups everything the router needs to register the API.
type Handlers struct {
	Auth      *handler.AuthHandler
	Public    *handler.PublicEventHandler
	Organizer *handler.OrganizerEventHandler
	Customer  *handler.CustomerReservationHandler
	Admin     *handler.AdminHandler
}

// Register mounts every route.  Public routes carry the rate limiter
// and response cache; authenticated groups add JWT validation and role
// gates on top.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.Use(limiter)

	e.GET("/healthz", handler.Health)

	// Session endpoints.
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	// Public catalogue, cacheable.
	pub := e.Group("/v1/events", cache)
	pub.GET("", h.Public.ListAvailable)
	pub.GET("/search", h.Public.Search)
	pub.GET("/popular", h.Public.Popular)
	pub.GET("/:id", h.Public.Get)
	pub.GET("/:id/availability", h.Public.Availability)

	// Everything below requires a valid access token.
	me := e.Group("/v1/me", middleware.JWTAuth(cfg.JWTSecret))
	me.GET("", h.Auth.Me)
	me.PUT("", h.Auth.UpdateProfile)
	me.PUT("/password", h.Auth.ChangePassword)

	// Booking endpoints are open to every authenticated role; admins
	// and organizers book like anyone else.
	res := e.Group("/v1/reservations",
		middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole(model.RoleClient, model.RoleOrganizer, model.RoleAdmin))
	res.POST("", h.Customer.Create)
	res.GET("", h.Customer.ListMine)
	res.GET("/stats", h.Customer.MyStats)
	res.GET("/code/:code", h.Customer.FindByCode)
	res.GET("/code/:code/summary", h.Customer.Summary)
	res.GET("/:id", h.Customer.Get)
	res.POST("/:id/confirm", h.Customer.Confirm)
	res.POST("/:id/cancel", h.Customer.Cancel)

	// Event management for organizers and admins.
	org := e.Group("/v1/organizer",
		middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole(model.RoleOrganizer, model.RoleAdmin))
	org.POST("/events", h.Organizer.Create)
	org.GET("/events", h.Organizer.ListMine)
	org.PUT("/events/:id", h.Organizer.Update)
	org.DELETE("/events/:id", h.Organizer.Delete)
	org.POST("/events/:id/publish", h.Organizer.Publish)
	org.POST("/events/:id/cancel", h.Organizer.Cancel)
	org.GET("/events/:id/reservations", h.Organizer.Reservations)
	org.GET("/stats", h.Organizer.MyStats)

	// Administration.
	adm := e.Group("/v1/admin",
		middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole(model.RoleAdmin))
	adm.GET("/users", h.Admin.ListUsers)
	adm.PUT("/users/:id/role", h.Admin.ChangeRole)
	adm.PUT("/users/:id/active", h.Admin.SetActive)
	adm.GET("/events", h.Admin.ListEvents)
	adm.GET("/reservations", h.Admin.ListReservations)
	adm.GET("/stats", h.Admin.GlobalStats)
}
