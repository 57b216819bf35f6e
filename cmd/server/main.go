package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/media-tracker/internal/api"
	"github.com/dom/media-tracker/internal/config"
	"github.com/dom/media-tracker/internal/logging"
	"github.com/dom/media-tracker/internal/repository"
	"github.com/dom/media-tracker/internal/repository/mongodb"
	"github.com/dom/media-tracker/internal/repository/postgres"
	"github.com/dom/media-tracker/internal/service"
	"github.com/getsentry/sentry-go"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			AttachStacktrace: true,
		}); err != nil {
			logging.Fatal().Err(err).Msg("failed to initialize sentry")
		}
		// Flush buffered events before the program terminates.
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to connect to store")
	}
	defer closeStore()

	services := service.NewServices(repos, cfg)
	go services.Auth.RunRevocationPurge(ctx, cfg.RevocationPurgeInterval)

	router := api.NewRouter(services, cfg)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Info().
			Str("port", cfg.Port).
			Str("driver", cfg.StoreDriver).
			Str("environment", cfg.Environment).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("failed to start server")
			stop()
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	logging.Info().Msg("server stopped")
}

// openStore connects the configured backend and returns its repositories
// with a function releasing the connection.
func openStore(ctx context.Context, cfg *config.Config) (*repository.Repositories, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		db, err := mongodb.NewConnection(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.Close(closeCtx); err != nil {
				logging.Warn().Err(err).Msg("close mongodb")
			}
		}
		return mongodb.NewRepositories(db), closeFn, nil

	default:
		db, err := postgres.NewConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return postgres.NewRepositories(db), closeFn, nil
	}
}
