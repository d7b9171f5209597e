// Package upscale drives remote upscaling tasks to completion.
//
// Orchestrator starts a task through a TaskClient and then polls its status
// on a capped progressive backoff schedule until the task completes, fails,
// or the polling deadline passes. Time is read through a Clock and waits go
// through a Sleeper so the loop can be driven deterministically in tests.
//
// Remote errors seen while polling are treated as "no news yet"; the loop
// only ends on a terminal status, the deadline, or cancellation of the
// caller's context. Every error returned once a task exists is a *TaskError
// carrying the task handle, so callers can look the task up again later.
package upscale
