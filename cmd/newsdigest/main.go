package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"newsdigest/internal/app"
	"newsdigest/internal/config"
	"newsdigest/internal/logging"
)

func main() {
	// Best-effort .env load; real environment always wins.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
