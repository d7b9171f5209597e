package api

import "github.com/phrazzld/upscayl-gateway/internal/domain"

// ServiceInfoResponse is the body of the service banner.
type ServiceInfoResponse struct {
	Message string `json:"message"`
	Docs    string `json:"docs"`
}

// StartUpscaleResponse is returned when an upscale task has been created.
type StartUpscaleResponse struct {
	TaskID  domain.TaskHandle `json:"task_id"`
	Status  string            `json:"status"`
	Message string            `json:"message"`
}

// Field names of the upscale form.
const (
	formFieldFiles          = "files"
	formFieldModel          = "model"
	formFieldScale          = "scale"
	formFieldSaveImageAs    = "saveImageAs"
	formFieldEnhanceFace    = "enhanceFace"
	formFieldURLs           = "urls"
	formFieldMaxWaitSeconds = "max_wait_seconds"
)

// Keys added to the raw remote status body.
const (
	statusKeyImageURLs  = "image_urls"
	statusKeyTaskStatus = "task_status"
	statusKeyState      = "state"
)
