package upscale

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/upscayl-gateway/internal/domain"
	"github.com/phrazzld/upscayl-gateway/internal/platform/upscayl"
	"github.com/phrazzld/upscayl-gateway/internal/redact"
)

// DefaultMaxWait is the polling deadline used when callers do not set one.
const DefaultMaxWait = 1200 * time.Second

// TaskClient starts remote tasks and fetches their status.
type TaskClient interface {
	StartTask(ctx context.Context, files []domain.UploadedImage, params domain.UpscaleRequest) (domain.TaskHandle, error)
	GetStatus(ctx context.Context, handle domain.TaskHandle) (upscayl.StatusPayload, error)
}

// StatusNormalizer classifies raw status payloads.
type StatusNormalizer interface {
	Normalize(payload upscayl.StatusPayload) domain.TaskOutcome
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(o *Orchestrator) {
		o.clock = clock
	}
}

// WithSleeper replaces the timer-based sleeper.
func WithSleeper(sleeper Sleeper) Option {
	return func(o *Orchestrator) {
		o.sleeper = sleeper
	}
}

// WithBackoffSchedule replaces DefaultBackoffSchedule.
func WithBackoffSchedule(schedule []time.Duration) Option {
	return func(o *Orchestrator) {
		o.schedule = schedule
	}
}

// WithDefaultMaxWait sets the deadline used when RunToCompletion is given a
// non-positive maxWait.
func WithDefaultMaxWait(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.defaultMaxWait = d
		}
	}
}

// Orchestrator runs the start, poll, decide loop for remote tasks. It keeps
// no per-task state between calls and is safe for concurrent use.
type Orchestrator struct {
	client         TaskClient
	normalizer     StatusNormalizer
	clock          Clock
	sleeper        Sleeper
	schedule       []time.Duration
	defaultMaxWait time.Duration
	logger         *slog.Logger
}

// NewOrchestrator creates an Orchestrator.
//
// Parameters:
//   - client: starts tasks and fetches status payloads
//   - normalizer: turns status payloads into outcomes
//   - logger: structured logger for polling diagnostics
//   - opts: optional clock, sleeper, schedule and deadline overrides
func NewOrchestrator(
	client TaskClient,
	normalizer StatusNormalizer,
	logger *slog.Logger,
	opts ...Option,
) (*Orchestrator, error) {
	if client == nil {
		return nil, errors.New("task client cannot be nil")
	}
	if normalizer == nil {
		return nil, errors.New("status normalizer cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	o := &Orchestrator{
		client:         client,
		normalizer:     normalizer,
		clock:          SystemClock{},
		sleeper:        TimerSleeper{},
		schedule:       DefaultBackoffSchedule,
		defaultMaxWait: DefaultMaxWait,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// StartTask creates a remote task without waiting for it. Errors are
// returned as-is so callers can fail fast.
func (o *Orchestrator) StartTask(
	ctx context.Context,
	files []domain.UploadedImage,
	params domain.UpscaleRequest,
) (domain.TaskHandle, error) {
	return o.client.StartTask(ctx, files, params)
}

// Status performs a single status check. Unlike the polling loop it does
// not absorb remote errors. The raw payload is returned alongside the
// outcome for callers that want to expose it.
func (o *Orchestrator) Status(
	ctx context.Context,
	handle domain.TaskHandle,
) (domain.TaskOutcome, upscayl.StatusPayload, error) {
	payload, err := o.client.GetStatus(ctx, handle)
	if err != nil {
		return domain.TaskOutcome{}, nil, err
	}
	return o.normalizer.Normalize(payload).WithHandle(handle), payload, nil
}

// RunToCompletion starts a task and polls it until it reaches a terminal
// state or maxWait has elapsed. A non-positive maxWait selects the default.
//
// The returned outcome is always terminal unless the context was cancelled.
// A completed task returns a nil error. A failed task returns a *TaskError
// wrapping ErrTaskFailed and a timed-out task one wrapping
// ErrPollingTimeout. A failure to create the task wraps ErrStartFailed and
// the client error, and is not retried.
func (o *Orchestrator) RunToCompletion(
	ctx context.Context,
	files []domain.UploadedImage,
	params domain.UpscaleRequest,
	maxWait time.Duration,
) (domain.TaskOutcome, error) {
	handle, err := o.client.StartTask(ctx, files, params)
	if err != nil {
		return domain.TaskOutcome{}, fmt.Errorf("%w: %w", ErrStartFailed, err)
	}

	return o.Await(ctx, handle, maxWait)
}

// pollState is the bookkeeping of one polling run.
type pollState struct {
	handle     domain.TaskHandle
	startedAt  time.Time
	backoff    *Backoff
	checks     int
	lastStatus string
}

// Await polls an existing task until it reaches a terminal state or maxWait
// has elapsed. The first status check happens immediately.
func (o *Orchestrator) Await(
	ctx context.Context,
	handle domain.TaskHandle,
	maxWait time.Duration,
) (domain.TaskOutcome, error) {
	if maxWait <= 0 {
		maxWait = o.defaultMaxWait
	}

	state := &pollState{
		handle:    handle,
		startedAt: o.clock.Now(),
		backoff:   NewBackoff(o.schedule),
	}

	log := o.logger.With("task_id", handle)
	log.DebugContext(ctx, "polling upscale task", "max_wait", maxWait.String())

	for {
		if err := ctx.Err(); err != nil {
			return o.abandon(ctx, log, state, err)
		}

		state.checks++
		outcome, err := o.check(ctx, log, state)
		if err != nil {
			if ctx.Err() != nil {
				return o.abandon(ctx, log, state, ctx.Err())
			}
			return domain.InProgress(state.lastStatus).WithHandle(handle), &TaskError{Handle: handle, Err: err}
		}

		switch outcome.State {
		case domain.TaskStateCompleted:
			log.InfoContext(ctx, "upscale task completed",
				"checks", state.checks,
				"image_count", len(outcome.URLs),
				"elapsed", o.clock.Now().Sub(state.startedAt).String())
			return outcome.WithHandle(handle), nil

		case domain.TaskStateFailed:
			log.WarnContext(ctx, "upscale task failed",
				"checks", state.checks,
				"reason", outcome.Reason)
			return outcome.WithHandle(handle), &TaskError{
				Handle: handle,
				Reason: outcome.Reason,
				Err:    ErrTaskFailed,
			}
		}

		state.lastStatus = outcome.Status

		elapsed := o.clock.Now().Sub(state.startedAt)
		if elapsed >= maxWait {
			log.WarnContext(ctx, "upscale task did not finish before deadline",
				"checks", state.checks,
				"elapsed", elapsed.String(),
				"last_status", state.lastStatus)
			return domain.TimedOut(handle, state.lastStatus), &TaskError{
				Handle: handle,
				Err:    ErrPollingTimeout,
			}
		}

		wait := state.backoff.Next()
		if remaining := maxWait - elapsed; wait > remaining {
			wait = remaining
		}

		log.DebugContext(ctx, "upscale task still in progress",
			"checks", state.checks,
			"task_status", outcome.Status,
			"next_wait", wait.String())

		if err := o.sleeper.Sleep(ctx, wait); err != nil {
			return o.abandon(ctx, log, state, err)
		}
	}
}

// check fetches and normalizes one status payload. Transient remote errors
// are reported as an in-progress outcome; anything else is returned.
func (o *Orchestrator) check(ctx context.Context, log *slog.Logger, state *pollState) (domain.TaskOutcome, error) {
	payload, err := o.client.GetStatus(ctx, state.handle)
	if err != nil {
		if upscayl.IsTransient(err) && ctx.Err() == nil {
			log.WarnContext(ctx, "transient error while polling upscale task",
				"checks", state.checks,
				"error", redact.Error(err))
			return domain.InProgress(state.lastStatus), nil
		}
		return domain.TaskOutcome{}, err
	}

	return o.normalizer.Normalize(payload), nil
}

// abandon ends a polling run whose context was cancelled. The remote task
// keeps running and can still be queried by its handle.
func (o *Orchestrator) abandon(
	ctx context.Context,
	log *slog.Logger,
	state *pollState,
	cause error,
) (domain.TaskOutcome, error) {
	log.InfoContext(ctx, "stopped polling upscale task",
		"checks", state.checks,
		"reason", cause.Error())
	return domain.InProgress(state.lastStatus).WithHandle(state.handle), &TaskError{
		Handle: state.handle,
		Err:    cause,
	}
}
