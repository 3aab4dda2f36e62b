package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/bookreview/catalog-service/internal/api"
	"github.com/bookreview/catalog-service/internal/infrastructure/db/memory"
	mongostore "github.com/bookreview/catalog-service/internal/infrastructure/db/mongo"
	redisstore "github.com/bookreview/catalog-service/internal/infrastructure/db/redis"
	"github.com/bookreview/catalog-service/internal/infrastructure/http/handlers"
	"github.com/bookreview/catalog-service/internal/pkg/config"
	"github.com/bookreview/catalog-service/pkg/logger"
)

func main() {
	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fallback := logger.Init(logger.Options{})
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "catalog-service",
	})

	deps, cleanup, err := openStore(ctx, cfg, logger.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
	}
	defer cleanup()

	e := api.NewRouter(deps, cfg, log)

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("driver", cfg.StoreDriver).Msg("server starting")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// openStore builds the repositories for the configured driver. The returned
// cleanup releases any connections.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (api.Dependencies, func(), error) {
	if cfg.StoreDriver == config.DriverMemory {
		store := memory.NewStore()
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return api.Dependencies{
			Users:    store.Users(),
			Books:    store.Books(),
			Reviews:  store.Reviews(),
			Denylist: store.Denylist(),
			Checks:   []handlers.Check{handlers.MemoryCheck()},
		}, func() {}, nil
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return api.Dependencies{}, nil, err
	}
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return api.Dependencies{}, nil, err
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return api.Dependencies{}, nil, err
	}

	log.Info().Str("db", cfg.Mongo.Database).Str("redis", cfg.Redis.Addr).Msg("store connected")

	cleanup := func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}

	return api.Dependencies{
		Users:    mongostore.NewUserRepository(db, cfg.Mongo.Timeout),
		Books:    mongostore.NewBookRepository(db, cfg.Mongo.Timeout),
		Reviews:  mongostore.NewReviewRepository(db, cfg.Mongo.Timeout),
		Denylist: redisstore.NewTokenDenylist(rdb),
		Checks:   []handlers.Check{handlers.MongoCheck(db), handlers.RedisCheck(rdb)},
	}, cleanup, nil
}
