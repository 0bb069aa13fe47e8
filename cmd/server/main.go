package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/config"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/database"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/handler"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/queue"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/repository"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/router"
	"github.com/Mohamedaitzaouit/systeme-de-gestion-des-reservations/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepo(db)
	eventRepo := repository.NewEventRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	users := service.NewUserService(userRepo)
	events := service.NewEventService(eventRepo, reservationRepo)
	bookings := service.NewBookingService(eventRepo, reservationRepo)
	stats := service.NewStatsService(eventRepo, reservationRepo)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}

	go func() {
		if err := queue.StartReservationConsumer(cfg.AMQPURL); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	// Periodic sweep moving elapsed published events to FINISHED.
	go func() {
		ticker := time.NewTicker(cfg.FinishSweep)
		defer ticker.Stop()
		for now := range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			n, err := events.FinishElapsed(ctx, now.UTC())
			cancel()
			if err != nil {
				log.Printf("finish sweep: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("finish sweep: %d event(s) marked finished", n)
			}
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users, tokenRepo),
		Public:    handler.NewPublicEventHandler(events),
		Organizer: handler.NewOrganizerEventHandler(events, bookings, stats),
		Customer:  handler.NewCustomerReservationHandler(cfg, events, bookings, stats),
		Admin:     handler.NewAdminHandler(users, events, bookings, stats),
	}, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
