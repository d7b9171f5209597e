package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/upscayl-gateway/internal/api"
	apiMiddleware "github.com/phrazzld/upscayl-gateway/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(apiMiddleware.CORS)

	upscaleHandler := api.NewUpscaleHandler(
		app.orchestrator,
		app.client.Normalizer(),
		app.config.Polling.MaxWait(),
		app.logger,
	)

	r.Get("/", upscaleHandler.ServiceInfo)

	r.Route("/upscale", func(r chi.Router) {
		if app.tokenService != nil {
			r.Use(apiMiddleware.NewAuthMiddleware(app.tokenService).Authenticate)
		}

		r.Post("/images", upscaleHandler.StartUpscale)
		r.Post("/images/sync", upscaleHandler.UpscaleSync)
		r.Get("/task/{task_id}", upscaleHandler.GetTaskStatus)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
