package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/upscayl-gateway/internal/config"
	"github.com/phrazzld/upscayl-gateway/internal/platform/upscayl"
	"github.com/phrazzld/upscayl-gateway/internal/service/auth"
	"github.com/phrazzld/upscayl-gateway/internal/upscale"
)

// application holds all the shared application dependencies.
type application struct {
	config *config.Config
	logger *slog.Logger

	client       *upscayl.Client
	orchestrator *upscale.Orchestrator

	// tokenService is nil when no JWT secret is configured, in which case
	// the upscale routes are public.
	tokenService auth.TokenService
}

// newApplication creates a new application instance with all dependencies
// initialized. Orchestrator options are passed through, which lets tests
// replace the clock and sleeper.
func newApplication(cfg *config.Config, logger *slog.Logger, opts ...upscale.Option) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.client, err = upscayl.NewClient(upscayl.Options{
		BaseURL:       cfg.Remote.APIURL,
		AssetBaseURL:  cfg.Remote.AssetBaseURL,
		APIKey:        cfg.Remote.APIKey,
		StartTimeout:  cfg.Remote.StartTimeout(),
		StatusTimeout: cfg.Remote.StatusTimeout(),
	}, logger.With("component", "upscayl_client"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize remote client: %w", err)
	}

	opts = append([]upscale.Option{upscale.WithDefaultMaxWait(cfg.Polling.MaxWait())}, opts...)
	app.orchestrator, err = upscale.NewOrchestrator(
		app.client,
		app.client.Normalizer(),
		logger.With("component", "orchestrator"),
		opts...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orchestrator: %w", err)
	}

	if cfg.Auth.Enabled() {
		app.tokenService, err = auth.NewTokenService(cfg.Auth)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize token service: %w", err)
		}
		logger.Info("Bearer token authentication enabled",
			"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the HTTP server and blocks until it shuts down.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup releases application resources on shutdown.
func (app *application) cleanup() {
	app.client.Close()
	app.logger.Info("Application shutdown completed")
}
