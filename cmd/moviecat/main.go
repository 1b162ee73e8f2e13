// Command moviecat is the interactive console browser for the Sakila
// movie catalog.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iliyamo/movie-catalog-browser/internal/browse"
	"github.com/iliyamo/movie-catalog-browser/internal/cli"
	"github.com/iliyamo/movie-catalog-browser/internal/config"
	"github.com/iliyamo/movie-catalog-browser/internal/database"
	"github.com/iliyamo/movie-catalog-browser/internal/logging"
	"github.com/iliyamo/movie-catalog-browser/internal/rating"
	"github.com/iliyamo/movie-catalog-browser/internal/repository"
	"github.com/iliyamo/movie-catalog-browser/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "moviecat:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, closer, err := logging.NewFile(cfg.Log, "moviecat")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closer.Close()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.OpenMySQL(cfg.MySQL)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer db.Close()
	if err := database.PingMySQL(ctx, db); err != nil {
		// The menu still starts; each search reports the failure with a hint.
		log.Warn("catalog unreachable at startup", "host", cfg.MySQL.Host, "err", err)
		fmt.Fprintf(os.Stderr, "Warning: the catalog database is not reachable yet (%v).\n", err)
	}

	catalog := repository.NewCatalogRepo(db, rating.New(cfg.RatingOrder))
	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}
	lookups := repository.NewLookupCache(catalog, rdb, cfg.Redis.Prefix, cfg.Redis.TTL, log)

	var (
		logStore   service.SearchLogStore
		statsStore service.StatsStore
	)
	mongoCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.Timeout)
	client, err := database.ConnectMongo(mongoCtx, cfg.Mongo)
	cancel()
	if err != nil {
		log.Warn("search log disabled", "err", err)
	} else {
		defer func() {
			dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer dcancel()
			_ = client.Disconnect(dctx)
		}()
		repo := repository.NewSearchLogRepo(database.SearchLogCollection(client, cfg.Mongo))
		logStore, statsStore = repo, repo
	}

	var events service.EventPublisher
	if p := service.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Queue, log); p != nil {
		events = p
	}

	favorites := repository.NewFavoriteStore(cfg.FavoritesFile)
	console := browse.NewConsole(os.Stdin, os.Stdout)

	app := cli.New(cli.Deps{
		Console:          console,
		Lookups:          lookups,
		Search:           catalog,
		Browser:          browse.NewController(catalog, favorites, console, cfg.PageSize, log),
		Favorites:        favorites,
		Logger:           service.NewSearchLogger(logStore, events, log),
		Stats:            service.NewStats(statsStore),
		Log:              log,
		EmptyKeywordMode: cfg.EmptyKeywordMode,
		StatsLimit:       cfg.StatsLimit,
	})

	log.Info("session started", "page_size", cfg.PageSize, "favorites", favorites.Path())
	err = app.Run(ctx)
	log.Info("session ended", "err", err)
	return err
}
