package upscayl

// StatusPayload is the decoded JSON body returned by the get-task-status
// endpoint. It is kept untyped because the remote shape is not guaranteed to
// be stable while a task is processing.
type StatusPayload map[string]any

// Data returns the nested result object, if present and well formed.
func (p StatusPayload) Data() (map[string]any, bool) {
	if p == nil {
		return nil, false
	}
	data, ok := p["data"].(map[string]any)
	return data, ok
}

// Remote endpoint paths, relative to the configured API URL.
const (
	startTaskPath     = "/start-task"
	getTaskStatusPath = "/get-task-status"
)

// apiKeyHeader carries the API key on every remote request.
const apiKeyHeader = "X-API-Key"

// taskRef is the {"taskId": ...} object used both in the start-task
// response and in the get-task-status request.
type taskRef struct {
	TaskID string `json:"taskId"`
}

// startTaskResponse is the part of the start-task response the client needs.
type startTaskResponse struct {
	Data *taskRef `json:"data"`
}

// getTaskStatusRequest is the JSON body of a get-task-status call.
type getTaskStatusRequest struct {
	Data taskRef `json:"data"`
}
