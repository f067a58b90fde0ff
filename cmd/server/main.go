package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/movie-ticketing/internal/config"
	"github.com/iliyamo/movie-ticketing/internal/database"
	"github.com/iliyamo/movie-ticketing/internal/handler"
	"github.com/iliyamo/movie-ticketing/internal/middleware"
	"github.com/iliyamo/movie-ticketing/internal/queue"
	"github.com/iliyamo/movie-ticketing/internal/repository"
	"github.com/iliyamo/movie-ticketing/internal/router"
	"github.com/iliyamo/movie-ticketing/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	log := hclog.New(&hclog.LoggerOptions{
		Name:  "movie-ticketing",
		Level: hclog.LevelFromString(cfg.LogLevel),
	})

	db, err := database.Open(cfg, log.Named("db"))
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	rdb := config.NewRedisClient(log.Named("redis"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(rdb)

	var events handler.TicketEvents
	if cfg.AMQPEnabled {
		events = service.NewTicketPublisher(cfg.AMQPURL, log.Named("publisher"))
		go func() {
			if err := queue.StartTicketConsumer(ctx, cfg.AMQPURL, cfg.TicketLogDir, log.Named("consumer")); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("ticket consumer stopped", "error", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Named("http").Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Session(middleware.SessionConfig{
		Secret:     cfg.JWTSecret,
		CookieName: cfg.SessionCookie,
		Revoked:    tokens,
		Log:        log.Named("session"),
	}))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log.Named("ratelimit")))

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens, log.Named("auth")))
	router.RegisterResources(e, router.Resources{
		Movies:   handler.NewMovieHandler(repository.NewMovieRepo(db), log.Named("movies")),
		Theatres: handler.NewTheatreHandler(repository.NewTheatreRepo(db), log.Named("theatres")),
		Reviews:  handler.NewReviewHandler(repository.NewReviewRepo(db), log.Named("reviews")),
		Tickets:  handler.NewTicketHandler(repository.NewTicketRepo(db), events, log.Named("tickets")),
	}, middleware.NewRedisCache(config.LoadCacheConfig(), rdb, log.Named("cache")))

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env, "db", cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
