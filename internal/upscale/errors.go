package upscale

import (
	"errors"
	"fmt"

	"github.com/phrazzld/upscayl-gateway/internal/domain"
)

// Errors returned by the orchestrator.
var (
	// ErrTaskFailed is returned when the remote service reports that a task
	// failed.
	ErrTaskFailed = errors.New("remote upscale task failed")

	// ErrPollingTimeout is returned when a task is still running once the
	// polling deadline has passed.
	ErrPollingTimeout = errors.New("timed out waiting for upscale task")

	// ErrStartFailed is returned when the remote task could not be created.
	ErrStartFailed = errors.New("failed to start upscale task")
)

// TaskError is a polling-domain error tied to a specific remote task.
type TaskError struct {
	Handle domain.TaskHandle
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *TaskError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("task %s: %v: %s", e.Handle, e.Err, e.Reason)
	}
	return fmt.Sprintf("task %s: %v", e.Handle, e.Err)
}

// Unwrap returns the underlying error.
func (e *TaskError) Unwrap() error {
	return e.Err
}

// HandleFromError returns the task handle carried by err, if any.
func HandleFromError(err error) (domain.TaskHandle, bool) {
	var taskErr *TaskError
	if errors.As(err, &taskErr) && taskErr.Handle != "" {
		return taskErr.Handle, true
	}
	return "", false
}
