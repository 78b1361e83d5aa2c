package main

import (
	"log/slog"
	"os"

	"auth_backend/internal/platform/config"
	"auth_backend/internal/platform/db"
	"auth_backend/internal/platform/logger"
)

func main() {
	cfg := config.Load()
	logger.Setup(os.Stdout, cfg.IsProduction())

	if err := run(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("migration ok")
}

func run() error {
	gdb, err := db.OpenDB(db.LoadConfigFromEnv(), false)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	return db.Migrate(gdb)
}
