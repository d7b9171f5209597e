package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/upscayl-gateway/internal/domain"
	"github.com/phrazzld/upscayl-gateway/internal/platform/upscayl"
)

// StatusResponse is one scripted reply to GetStatus.
type StatusResponse struct {
	Payload upscayl.StatusPayload
	Err     error
}

// MockTaskClient implements upscale.TaskClient for testing
type MockTaskClient struct {
	// StartTaskFn allows test cases to mock the StartTask behavior
	StartTaskFn func(ctx context.Context, files []domain.UploadedImage, params domain.UpscaleRequest) (domain.TaskHandle, error)

	// GetStatusFn allows test cases to mock the GetStatus behavior
	GetStatusFn func(ctx context.Context, handle domain.TaskHandle) (upscayl.StatusPayload, error)

	// Default StartTask response values
	Handle   domain.TaskHandle
	StartErr error

	// Statuses are returned by GetStatus in order when GetStatusFn is nil.
	// The last entry repeats once the script runs out.
	Statuses []StatusResponse

	mu sync.Mutex

	// StartTaskCalls counts StartTask invocations
	StartTaskCalls int

	// StartTaskFiles records the file count of every StartTask call
	StartTaskFiles []int

	// StartTaskParams records the parameters of every StartTask call
	StartTaskParams []domain.UpscaleRequest

	// GetStatusCalls counts GetStatus invocations
	GetStatusCalls int

	// GetStatusHandles records the handle of every GetStatus call
	GetStatusHandles []domain.TaskHandle
}

// StartTask implements upscale.TaskClient
func (m *MockTaskClient) StartTask(
	ctx context.Context,
	files []domain.UploadedImage,
	params domain.UpscaleRequest,
) (domain.TaskHandle, error) {
	m.mu.Lock()
	m.StartTaskCalls++
	m.StartTaskFiles = append(m.StartTaskFiles, len(files))
	m.StartTaskParams = append(m.StartTaskParams, params)
	m.mu.Unlock()

	if m.StartTaskFn != nil {
		return m.StartTaskFn(ctx, files, params)
	}

	return m.Handle, m.StartErr
}

// GetStatus implements upscale.TaskClient
func (m *MockTaskClient) GetStatus(ctx context.Context, handle domain.TaskHandle) (upscayl.StatusPayload, error) {
	m.mu.Lock()
	call := m.GetStatusCalls
	m.GetStatusCalls++
	m.GetStatusHandles = append(m.GetStatusHandles, handle)
	m.mu.Unlock()

	if m.GetStatusFn != nil {
		return m.GetStatusFn(ctx, handle)
	}

	if len(m.Statuses) == 0 {
		return StatusPayload("QUEUED"), nil
	}
	if call >= len(m.Statuses) {
		call = len(m.Statuses) - 1
	}
	resp := m.Statuses[call]
	return resp.Payload, resp.Err
}

// StatusCount returns how many times GetStatus was called
func (m *MockTaskClient) StatusCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.GetStatusCalls
}

// StartCount returns how many times StartTask was called
func (m *MockTaskClient) StartCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.StartTaskCalls
}

// NewScriptedTaskClient creates a MockTaskClient that starts task handle and
// then replies to status checks with responses in order
func NewScriptedTaskClient(handle domain.TaskHandle, responses ...StatusResponse) *MockTaskClient {
	return &MockTaskClient{
		Handle:   handle,
		Statuses: responses,
	}
}

// StatusPayload builds a payload of the shape {"data":{"status":status}}
func StatusPayload(status string) upscayl.StatusPayload {
	return upscayl.StatusPayload{"data": map[string]any{"status": status}}
}

// CompletedPayload builds a completed payload whose files carry the given
// relative paths
func CompletedPayload(status string, paths ...string) upscayl.StatusPayload {
	files := make([]any, 0, len(paths))
	for _, p := range paths {
		files = append(files, map[string]any{"path": p})
	}
	return upscayl.StatusPayload{"data": map[string]any{"status": status, "files": files}}
}

// FailedPayload builds a failed payload with an error message
func FailedPayload(reason string) upscayl.StatusPayload {
	return upscayl.StatusPayload{"data": map[string]any{"status": "FAILED", "error": reason}}
}

// Respond wraps a payload as a successful scripted response
func Respond(payload upscayl.StatusPayload) StatusResponse {
	return StatusResponse{Payload: payload}
}

// RespondErr wraps an error as a scripted response
func RespondErr(err error) StatusResponse {
	return StatusResponse{Err: err}
}
