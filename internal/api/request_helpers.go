package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/upscayl-gateway/internal/api/shared"
	"github.com/phrazzld/upscayl-gateway/internal/domain"
)

// upscaleForm is a parsed upscale request.
type upscaleForm struct {
	Files   []domain.UploadedImage
	Params  domain.UpscaleRequest
	MaxWait time.Duration
}

// parseUpscaleForm reads the multipart upscale form. Missing parameters take
// their documented defaults. The images are not validated here; the remote
// client validates them before any network call.
func parseUpscaleForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (*upscaleForm, error) {
	if err := shared.ParseMultipartForm(w, r, maxBytes); err != nil {
		return nil, err
	}

	formFiles, err := shared.ReadFormFiles(r, formFieldFiles)
	if err != nil {
		return nil, err
	}

	files := make([]domain.UploadedImage, 0, len(formFiles))
	for _, f := range formFiles {
		files = append(files, domain.UploadedImage{
			Filename:    f.Filename,
			ContentType: f.ContentType,
			Content:     f.Content,
		})
	}

	defaults := domain.DefaultUpscaleRequest()
	params := domain.UpscaleRequest{
		Model:       shared.FormValueOr(r, formFieldModel, defaults.Model),
		Scale:       shared.FormValueOr(r, formFieldScale, defaults.Scale),
		SaveImageAs: strings.ToLower(shared.FormValueOr(r, formFieldSaveImageAs, defaults.SaveImageAs)),
		EnhanceFace: defaults.EnhanceFace,
	}

	if raw := shared.FormValueOr(r, formFieldEnhanceFace, ""); raw != "" {
		enhance, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, domain.NewValidationError(formFieldEnhanceFace, "must be true or false", nil)
		}
		params.EnhanceFace = enhance
	}

	urls, err := parseURLs(shared.FormValues(r, formFieldURLs))
	if err != nil {
		return nil, err
	}
	params.URLs = urls

	maxWait, err := parseMaxWait(shared.FormValueOr(r, formFieldMaxWaitSeconds, ""))
	if err != nil {
		return nil, err
	}

	return &upscaleForm{Files: files, Params: params, MaxWait: maxWait}, nil
}

// parseURLs accepts either a single JSON array or repeated plain fields.
func parseURLs(values []string) ([]string, error) {
	var urls []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.HasPrefix(v, "[") {
			var list []string
			if err := json.Unmarshal([]byte(v), &list); err != nil {
				return nil, domain.NewValidationError(formFieldURLs, "must be a JSON array of strings", nil)
			}
			for _, u := range list {
				if u = strings.TrimSpace(u); u != "" {
					urls = append(urls, u)
				}
			}
			continue
		}
		urls = append(urls, v)
	}
	return urls, nil
}

// parseMaxWait parses an optional positive number of seconds. Zero means the
// server default.
func parseMaxWait(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 0, domain.NewValidationError(formFieldMaxWaitSeconds, "must be a positive integer", nil)
	}
	return time.Duration(seconds) * time.Second, nil
}

// getTaskHandle extracts the task handle from the URL path.
func getTaskHandle(r *http.Request) (domain.TaskHandle, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "task_id"))
	if raw == "" {
		return "", domain.NewValidationError("task_id", "is required", domain.ErrEmptyTaskHandle)
	}
	return domain.TaskHandle(raw), nil
}
