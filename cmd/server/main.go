package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/trailhead/vehicle-booking/internal/booking"
	"github.com/trailhead/vehicle-booking/internal/config"
	"github.com/trailhead/vehicle-booking/internal/database"
	"github.com/trailhead/vehicle-booking/internal/handler"
	"github.com/trailhead/vehicle-booking/internal/middleware"
	"github.com/trailhead/vehicle-booking/internal/queue"
	"github.com/trailhead/vehicle-booking/internal/repository"
	"github.com/trailhead/vehicle-booking/internal/router"
	queue_publisher "github.com/trailhead/vehicle-booking/internal/service"
)

func main() {
	// Load .env if present; real deployments set the environment
	// directly and the file is absent.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Wire the booking engine against MySQL, the trip cross-reference
	// and the RabbitMQ notifier.
	store := repository.NewStore(db)
	trips := repository.NewTripRepo(db)
	notifier := queue_publisher.NewNotifier()
	engine := booking.NewEngine(store, trips, notifier)

	// The consumer delivers queued notifications to the log file and
	// reconnects on broker failures.
	go func() {
		if err := queue.StartNotifyConsumer(cfg.NotifyLog); err != nil {
			log.Printf("notify-consumer: stopped: %v", err)
		}
	}()

	e := echo.New()

	// Redis backs the distributed rate limiter and response cache.
	// When Redis is unreachable both degrade to no-ops.
	if rdb := config.NewRedisClient(); rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	} else {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, repository.NewUserRepo(db)), cfg.JWTSecret)
	router.RegisterBooking(e, handler.NewRequestHandler(engine), cfg.JWTSecret)
	router.RegisterStaff(e, handler.NewStaffHandler(engine), cfg.JWTSecret)
	router.RegisterVehicles(e, handler.NewVehicleHandler(engine, repository.NewVehicleRepo(db)), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
