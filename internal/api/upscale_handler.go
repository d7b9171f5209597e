package api

import (
	"context"
	"log/slog"
	"maps"
	"net/http"
	"time"

	"github.com/phrazzld/upscayl-gateway/internal/api/shared"
	"github.com/phrazzld/upscayl-gateway/internal/domain"
	"github.com/phrazzld/upscayl-gateway/internal/platform/logger"
	"github.com/phrazzld/upscayl-gateway/internal/platform/upscayl"
	"github.com/phrazzld/upscayl-gateway/internal/upscale"
)

// ServiceBanner is the message returned by the root endpoint, spelled as the
// upstream service spells it.
const ServiceBanner = "Upscayle API Service"

// ServiceDocsPath is advertised by the root endpoint.
const ServiceDocsPath = "/docs"

// UpscaleService starts, inspects and awaits remote upscale tasks.
// *upscale.Orchestrator implements it.
type UpscaleService interface {
	StartTask(ctx context.Context, files []domain.UploadedImage, params domain.UpscaleRequest) (domain.TaskHandle, error)
	Status(ctx context.Context, handle domain.TaskHandle) (domain.TaskOutcome, upscayl.StatusPayload, error)
	RunToCompletion(
		ctx context.Context,
		files []domain.UploadedImage,
		params domain.UpscaleRequest,
		maxWait time.Duration,
	) (domain.TaskOutcome, error)
}

// ImageURLExtractor derives download URLs from a raw status payload.
// *upscayl.Normalizer implements it.
type ImageURLExtractor interface {
	ImageURLs(payload upscayl.StatusPayload) []string
}

// UpscaleHandler handles upscale-related HTTP requests
type UpscaleHandler struct {
	service        UpscaleService
	urls           ImageURLExtractor
	maxWait        time.Duration
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewUpscaleHandler creates a new UpscaleHandler. maxWait is both the
// default and the upper bound for synchronous upscales.
func NewUpscaleHandler(
	service UpscaleService,
	urls ImageURLExtractor,
	maxWait time.Duration,
	logger *slog.Logger,
) *UpscaleHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UpscaleHandler")
	}
	if maxWait <= 0 {
		maxWait = upscale.DefaultMaxWait
	}

	return &UpscaleHandler{
		service:        service,
		urls:           urls,
		maxWait:        maxWait,
		maxUploadBytes: shared.DefaultMaxUploadBytes,
		logger:         logger.With(slog.String("component", "upscale_handler")),
	}
}

// ServiceInfo handles GET / requests.
func (h *UpscaleHandler) ServiceInfo(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, ServiceInfoResponse{Message: ServiceBanner, Docs: ServiceDocsPath})
}

// StartUpscale handles POST /upscale/images requests.
// It creates a remote task and returns its handle without waiting.
func (h *UpscaleHandler) StartUpscale(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	form, err := parseUpscaleForm(w, r, h.maxUploadBytes)
	if err != nil {
		HandleAPIError(w, r, err, "Invalid upscale request")
		return
	}

	handle, err := h.service.StartTask(r.Context(), form.Files, form.Params)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start upscale task")
		return
	}

	log.Info("upscale task accepted",
		slog.String("task_id", handle.String()),
		slog.Int("file_count", len(form.Files)))

	shared.RespondWithJSON(w, r, http.StatusAccepted, StartUpscaleResponse{
		TaskID:  handle,
		Status:  "started",
		Message: "Upscale task started",
	})
}

// GetTaskStatus handles GET /upscale/task/{task_id} requests.
// The remote status body is returned as-is, decorated with the normalized
// state, the raw status and the derived image URLs.
func (h *UpscaleHandler) GetTaskStatus(w http.ResponseWriter, r *http.Request) {
	handle, err := getTaskHandle(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	outcome, payload, err := h.service.Status(r.Context(), handle)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task status", shared.WithTaskDetails(handle.String(), "", ""))
		return
	}

	body := make(map[string]any, len(payload)+3)
	maps.Copy(body, payload)
	body[statusKeyImageURLs] = h.urls.ImageURLs(payload)
	body[statusKeyTaskStatus] = outcome.Status
	body[statusKeyState] = outcome.State

	shared.RespondWithJSON(w, r, http.StatusOK, body)
}

// UpscaleSync handles POST /upscale/images/sync requests.
// It starts a task and polls it until completion, failure or the deadline.
func (h *UpscaleHandler) UpscaleSync(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	form, err := parseUpscaleForm(w, r, h.maxUploadBytes)
	if err != nil {
		HandleAPIError(w, r, err, "Invalid upscale request")
		return
	}

	maxWait := form.MaxWait
	if maxWait <= 0 || maxWait > h.maxWait {
		maxWait = h.maxWait
	}

	outcome, err := h.service.RunToCompletion(r.Context(), form.Files, form.Params, maxWait)
	if err != nil {
		var opts []shared.ResponseOption
		if handle, ok := upscale.HandleFromError(err); ok {
			opts = append(opts, shared.WithTaskDetails(handle.String(), outcome.Status, outcome.Reason))
		}
		HandleAPIError(w, r, err, "Upscale failed", opts...)
		return
	}

	log.Info("upscale task finished",
		slog.String("task_id", outcome.Handle.String()),
		slog.Int("image_count", len(outcome.URLs)))

	shared.RespondWithJSON(w, r, http.StatusOK, outcome)
}
