// Package cli provides common process initialization for cmd/sharkfin.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"sharkfin/internal/config"
	"sharkfin/internal/log"
	"sharkfin/internal/session"
)

// SetupLogger initializes structured logging and sets the slog default.
func SetupLogger() *log.Logger {
	logger := log.New(log.DefaultConfig())
	slog.SetDefault(logger.Logger)
	return logger
}

// LoadEnvFile loads the .env file for local development. Errors are
// ignored; the file is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it. Exits the
// process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitSessionStore opens the session database, running migrations. Exits
// the process on failure.
func InitSessionStore(logger *log.Logger, dbPath string) *session.Store {
	store, err := session.NewStore(dbPath)
	if err != nil {
		logger.Error("failed to initialize session store", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return store
}
