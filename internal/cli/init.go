// Package cli provides common bootstrap utilities shared by
// cmd/wealthify and cmd/wealthify-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"wealthify/internal/config"
	"wealthify/internal/log"
	"wealthify/internal/storage"
)

// SetupLogger initializes structured logging and sets the process-wide
// default.
func SetupLogger() *log.Logger {
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// OpenSlotStore opens the durable slot store at the given path.
// Returns the store or exits the process on failure.
func OpenSlotStore(logger *log.Logger, dbPath string) *storage.Store {
	store, err := storage.Open(dbPath)
	if err != nil {
		logger.Error("Failed to open slot store", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return store
}
