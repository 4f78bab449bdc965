// Package cli provides common process initialization for cmd/owura.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"owura/internal/config"
	applog "owura/internal/log"
	"owura/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes structured logging at the given level and
// sets it as the process default.
func SetupLogger(level slog.Level) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     level,
		Component: applog.ComponentApp,
		Handler:   slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
	})
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitStore initializes the SQLite snapshot store with the given path.
// Returns the store or exits the process on failure.
func InitStore(logger *applog.Logger, dbPath string) *storage.SnapshotStore {
	store, err := storage.NewSnapshotStore(dbPath)
	if err != nil {
		logger.Error("Failed to initialize snapshot store", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return store
}
