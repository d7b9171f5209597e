// Package main implements the entry point for the Upscayl gateway server,
// which accepts image uploads and relays them to the remote Upscayl API.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/phrazzld/upscayl-gateway/internal/config"
	"github.com/phrazzld/upscayl-gateway/internal/platform/logger"
)

func main() {
	cfg, err := loadAppConfig()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := app.Run(context.Background()); err != nil {
		appLogger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

// loadAppConfig loads the configuration from the environment and an optional
// config.yaml in the working directory.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"remote_api_url", cfg.Remote.APIURL,
		"max_wait_seconds", cfg.Polling.MaxWaitSeconds,
		"auth_enabled", cfg.Auth.Enabled())

	return cfg, nil
}
