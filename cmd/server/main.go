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

	goredis "github.com/redis/go-redis/v9"

	"auth_backend/internal/app/di"
	"auth_backend/internal/app/router"
	"auth_backend/internal/feature/auth/usecase"
	"auth_backend/internal/platform/config"
	"auth_backend/internal/platform/db"
	"auth_backend/internal/platform/logger"
	platformredis "auth_backend/internal/platform/redis"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = time.Hour
)

func main() {
	cfg := config.Load()
	log := logger.Setup(os.Stdout, cfg.IsProduction())

	if err := cfg.Validate(); err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := db.OpenDB(db.LoadConfigFromEnv(), cfg.RunMigrations)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	// Redis
	var rdb *goredis.Client
	if client, err := platformredis.NewRedisClient(ctx, cfg.Redis); err != nil {
		if !errors.Is(err, platformredis.ErrNotConfigured) {
			log.Warn("Redis unavailable. Storing verification tokens in SQL.", "error", err)
		}
	} else {
		rdb = client
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// mail
	sender, err := di.NewMailSender(cfg, log)
	if err != nil {
		return err
	}

	auth := di.NewAuth(cfg, gdb, rdb, sender)
	r := router.NewRouter(router.Deps{
		Auth:           auth.Handler,
		Users:          auth.Users,
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins,
		Pingers:        di.NewReadinessPingers(gdb, rdb),
	})

	go usecase.RunTokenJanitor(ctx, auth.Tokens, janitorInterval)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "port", cfg.Port, "origins", cfg.AllowedOrigins)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
