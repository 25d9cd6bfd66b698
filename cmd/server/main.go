package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/vidly/vidly-api/internal/config"
	"github.com/vidly/vidly-api/internal/database"
	"github.com/vidly/vidly-api/internal/handler"
	"github.com/vidly/vidly-api/internal/middleware"
	"github.com/vidly/vidly-api/internal/queue"
	"github.com/vidly/vidly-api/internal/repository"
	"github.com/vidly/vidly-api/internal/router"
)

func main() {
	// .env is a development convenience; absence is fine.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := config.NewRedisClient(cfg)
	if rdb == nil {
		log.Println("redis: unavailable, response cache disabled")
	}
	cache := middleware.NewCache(rdb, config.LoadCacheConfig())

	movies := repository.NewMovieRepo(db)
	h := router.Handlers{
		Genres:    handler.NewGenreHandler(repository.NewGenreRepo(db)),
		Customers: handler.NewCustomerHandler(repository.NewCustomerRepo(db)),
		Movies:    handler.NewMovieHandler(movies),
		Users:     handler.NewUserHandler(repository.NewUserRepo(db), cfg.JWTSecret, cfg.BcryptCost),
		Rentals:   handler.NewRentalHandler(repository.NewRentalRepo(db, movies), cfg.RabbitURL),
	}

	e := echo.New()
	router.RegisterRoutes(e, h, cache)

	if cfg.RabbitURL != "" {
		go queue.StartRentalConsumer(cfg.RabbitURL)
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
