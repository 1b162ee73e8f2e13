// Command server exposes the search analytics and the favorites list over
// HTTP, and optionally counts search events from the event queue.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog-browser/internal/config"
	"github.com/iliyamo/movie-catalog-browser/internal/database"
	"github.com/iliyamo/movie-catalog-browser/internal/handler"
	"github.com/iliyamo/movie-catalog-browser/internal/logging"
	"github.com/iliyamo/movie-catalog-browser/internal/middleware"
	"github.com/iliyamo/movie-catalog-browser/internal/queue"
	"github.com/iliyamo/movie-catalog-browser/internal/repository"
	"github.com/iliyamo/movie-catalog-browser/internal/router"
	"github.com/iliyamo/movie-catalog-browser/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, logging.ParseLevel(cfg.Log.Level), "moviecat-stats")
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var statsStore service.StatsStore
	mongoCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.Timeout)
	client, err := database.ConnectMongo(mongoCtx, cfg.Mongo)
	cancel()
	if err != nil {
		log.Warn("search log unavailable, stats endpoints answer 503", "err", err)
	} else {
		defer func() { _ = client.Disconnect(context.Background()) }()
		statsStore = repository.NewSearchLogRepo(database.SearchLogCollection(client, cfg.Mongo))
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	if cfg.Events.AMQPURL != "" {
		go func() {
			err := queue.ConsumeSearchEvents(ctx, cfg.Events.AMQPURL, cfg.Events.Queue, func(ev queue.SearchLoggedEvent) error {
				middleware.ObserveSearchEvent(ev.SearchType)
				log.Debug("search event", "type", ev.SearchType, "results", ev.ResultsCount)
				return nil
			}, log)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error("search consumer stopped", "err", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Metrics())
	router.RegisterRoutes(e)
	router.RegisterStats(e, &handler.StatsHandler{
		Stats:        service.NewStats(statsStore),
		Favorites:    repository.NewFavoriteStore(cfg.FavoritesFile),
		DefaultLimit: cfg.StatsLimit,
	},
		middleware.RateLimit(cfg.Rate, rdb),
		middleware.ResponseCache(rdb, "moviecat:stats", cfg.StatsCacheTTL),
	)

	addr := ":" + cfg.StatsPort
	go func() {
		log.Info("listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}
