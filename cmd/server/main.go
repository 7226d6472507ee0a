package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/moradaviva/amenity-reservation/internal/booking"
	"github.com/moradaviva/amenity-reservation/internal/config"
	"github.com/moradaviva/amenity-reservation/internal/database"
	"github.com/moradaviva/amenity-reservation/internal/handler"
	"github.com/moradaviva/amenity-reservation/internal/live"
	"github.com/moradaviva/amenity-reservation/internal/middleware"
	"github.com/moradaviva/amenity-reservation/internal/queue"
	"github.com/moradaviva/amenity-reservation/internal/repository"
	"github.com/moradaviva/amenity-reservation/internal/router"
	"github.com/moradaviva/amenity-reservation/internal/termgate"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the cache and rate limiter switch off
	// and attendance badges are recomputed from the ledger on every read.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; caching, rate limiting and badge cache disabled")
	}

	reservations := repository.NewReservationRepo(db)
	guests := repository.NewGuestRepo(db)
	terms := repository.NewTermRepo(db)

	hub := live.NewHub()
	attendance := &queue.PresenceConsumer{
		Guests:           guests,
		Redis:            rdb,
		Hub:              hub,
		FeeApplicable:    booking.EventOnlyFee,
		IncludeRequester: cfg.FeeIncludeRequester,
	}
	go func() {
		if err := attendance.Start(); err != nil {
			log.Printf("presence consumer stopped: %v", err)
		}
	}()

	gates := termgate.NewRegistry(cfg.TermReadingSeconds, time.Second)

	resident := handler.NewResidentHandler(reservations, guests, terms, gates, attendance, hub)
	gatehouse := handler.NewGatehouseHandler(reservations, guests, attendance, resident)
	admin := handler.NewAdminHandler(reservations, attendance)

	e := echo.New()
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterResident(e, resident, cfg.JWTSecret, limiter)
	router.RegisterGatehouse(e, gatehouse, cfg.JWTSecret, limiter)
	router.RegisterAdmin(e, admin, cfg.JWTSecret, cache, limiter)
	if cfg.Env == "dev" {
		router.RegisterDev(e, cfg.JWTSecret, cfg.AccessTTLMin)
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
