package upscayl

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/phrazzld/upscayl-gateway/internal/domain"
)

// DefaultFailureReason is used when the remote service reports a failed task
// without saying why.
const DefaultFailureReason = "remote task failed"

// Remote status strings, compared after upper-casing. The remote API is not
// consistent about case.
var (
	completedStatuses = map[string]struct{}{
		"PROCESSED": {},
		"COMPLETED": {},
		"COMPLETE":  {},
		"SUCCESS":   {},
		"DONE":      {},
	}
	failedStatuses = map[string]struct{}{
		"FAILED": {},
		"ERROR":  {},
	}
	// knownProgressStatuses are in-progress statuses the remote API is known
	// to report. Anything else is logged so vocabulary changes are visible.
	knownProgressStatuses = map[string]struct{}{
		"":           {},
		"QUEUED":     {},
		"PENDING":    {},
		"STARTED":    {},
		"PROCESSING": {},
		"UPSCALING":  {},
		"ENHANCING":  {},
		"UPLOADING":  {},
	}
)

// Normalizer maps raw status payloads onto domain outcomes.
type Normalizer struct {
	assetBaseURL string
	logger       *slog.Logger
}

// NewNormalizer creates a Normalizer that joins relative file paths onto
// assetBaseURL. A nil logger discards diagnostics.
func NewNormalizer(assetBaseURL string, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Normalizer{
		assetBaseURL: strings.TrimRight(assetBaseURL, "/"),
		logger:       logger,
	}
}

// Normalize classifies a status payload. It is total: every payload,
// including nil or malformed ones, yields exactly one outcome.
func (n *Normalizer) Normalize(payload StatusPayload) domain.TaskOutcome {
	data, ok := payload.Data()
	if !ok {
		return domain.InProgress("")
	}

	status, _ := data["status"].(string)
	key := strings.ToUpper(strings.TrimSpace(status))

	if _, done := completedStatuses[key]; done {
		return domain.Completed(status, n.fileURLs(data))
	}

	if _, failed := failedStatuses[key]; failed {
		return domain.Failed(status, failureReason(data))
	}

	if _, known := knownProgressStatuses[key]; !known {
		n.logger.LogAttrs(context.Background(), slog.LevelDebug, "unrecognized remote task status",
			slog.String("task_status", status))
	}

	return domain.InProgress(status)
}

// ImageURLs extracts download URLs from a payload regardless of its status.
// It is used to decorate raw status responses.
func (n *Normalizer) ImageURLs(payload StatusPayload) []string {
	data, ok := payload.Data()
	if !ok {
		return []string{}
	}
	return n.fileURLs(data)
}

// fileURLs walks data.files in order. A direct "url" wins over a relative
// "path"; entries with neither are skipped.
func (n *Normalizer) fileURLs(data map[string]any) []string {
	urls := []string{}

	files, ok := data["files"].([]any)
	if !ok {
		return urls
	}

	for _, entry := range files {
		file, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		if u, ok := file["url"].(string); ok && u != "" {
			urls = append(urls, u)
			continue
		}

		if p, ok := file["path"].(string); ok && p != "" {
			urls = append(urls, n.assetBaseURL+"/"+strings.TrimLeft(p, "/"))
		}
	}

	return urls
}

// failureReason picks the remote error message, falling back to a generic
// placeholder.
func failureReason(data map[string]any) string {
	for _, key := range []string{"error", "errorMessage", "message"} {
		if reason, ok := data[key].(string); ok && strings.TrimSpace(reason) != "" {
			return reason
		}
	}
	return DefaultFailureReason
}
