package main // Entry point package

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/foodcourt-table-reservation/internal/catalog"
	"github.com/iliyamo/foodcourt-table-reservation/internal/config"
	"github.com/iliyamo/foodcourt-table-reservation/internal/database"
	"github.com/iliyamo/foodcourt-table-reservation/internal/handler"
	"github.com/iliyamo/foodcourt-table-reservation/internal/queue"
	"github.com/iliyamo/foodcourt-table-reservation/internal/repository"
	"github.com/iliyamo/foodcourt-table-reservation/internal/router"
	"github.com/iliyamo/foodcourt-table-reservation/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	zerolog.TimeFieldFormat = time.RFC3339
	logger := log.Output(zerolog.New(os.Stdout).With().Timestamp().Logger())

	cfg := config.Load()

	cat, err := catalog.Parse(cfg.TableLayout)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid TABLE_LAYOUT")
	}
	logger.Info().Int("tables", cat.Size()).Uint32("max_capacity", cat.MaxCapacity()).Msg("table catalog loaded")

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	repo := repository.NewReservationRepo(db)
	if err := repo.MigrateUp(context.Background(), cfg.MigrationsDir, &logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply migrations")
	}

	svc := service.NewReservationService(repo, cat, &logger, cfg.AssignRetryMax)
	h := handler.NewReservationHandler(svc)

	// Redis is optional: nil disables rate limiting and the response cache.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn().Msg("redis unavailable, rate limiting and response cache disabled")
	}

	// Background audit consumer; keeps its own reconnect loop.
	go queue.StartReservationConsumer(&logger)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterReservations(e, h, cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")

	if err := e.Start(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
