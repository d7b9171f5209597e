package domain

// TaskState is the normalized state of a remote task.
type TaskState string

// Possible task states. Completed, Failed and TimedOut are terminal.
const (
	TaskStateInProgress TaskState = "in_progress"
	TaskStateCompleted  TaskState = "completed"
	TaskStateFailed     TaskState = "failed"
	TaskStateTimedOut   TaskState = "timed_out"
)

// IsTerminal reports whether the state ends a polling loop.
func (s TaskState) IsTerminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateFailed, TaskStateTimedOut:
		return true
	default:
		return false
	}
}

// TaskOutcome is the normalized result of one status check or of a whole
// polling run. Outcomes are values: each poll produces a new one.
type TaskOutcome struct {
	State TaskState `json:"state"`

	// Status is the raw status string reported by the remote service.
	Status string `json:"task_status"`

	// URLs lists the download URLs of the produced images, in the order the
	// remote service reported them. Only set for completed tasks.
	URLs []string `json:"image_urls"`

	// Reason describes why a task failed. Only set for failed tasks.
	Reason string `json:"reason,omitempty"`

	// Handle identifies the remote task. Set by the orchestrator so callers
	// can re-check a task out of band.
	Handle TaskHandle `json:"task_id,omitempty"`
}

// InProgress returns an outcome for a task that has not finished yet.
func InProgress(status string) TaskOutcome {
	return TaskOutcome{State: TaskStateInProgress, Status: status, URLs: []string{}}
}

// Completed returns an outcome for a finished task with its result URLs.
func Completed(status string, urls []string) TaskOutcome {
	if urls == nil {
		urls = []string{}
	}
	return TaskOutcome{State: TaskStateCompleted, Status: status, URLs: urls}
}

// Failed returns an outcome for a task the remote service reported as failed.
func Failed(status, reason string) TaskOutcome {
	return TaskOutcome{State: TaskStateFailed, Status: status, Reason: reason, URLs: []string{}}
}

// TimedOut returns an outcome for a task that did not finish before the
// polling deadline. The last observed status is kept.
func TimedOut(handle TaskHandle, lastStatus string) TaskOutcome {
	return TaskOutcome{State: TaskStateTimedOut, Status: lastStatus, Handle: handle, URLs: []string{}}
}

// WithHandle returns a copy of the outcome tagged with the given handle.
func (o TaskOutcome) WithHandle(handle TaskHandle) TaskOutcome {
	o.Handle = handle
	return o
}
