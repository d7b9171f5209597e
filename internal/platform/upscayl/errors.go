package upscayl

import (
	"context"
	"errors"
)

// Errors returned by the upscayl client.
var (
	// ErrTransport is returned when a request to the remote API fails at the
	// network level.
	ErrTransport = errors.New("upscayl: transport error")

	// ErrProtocol is returned when the remote API answers with a non-success
	// status or a body that does not have the expected structure.
	ErrProtocol = errors.New("upscayl: unexpected response")

	// ErrInvalidConfig is returned when the client is constructed with
	// missing or invalid options.
	ErrInvalidConfig = errors.New("upscayl: invalid client configuration")
)

// IsTransient reports whether err is a remote failure that a polling caller
// may treat as "no news yet" and retry on the next iteration. Cancellation of
// the caller's context is never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, ErrTransport) || errors.Is(err, ErrProtocol)
}

// IsRemoteError reports whether err originated from talking to the remote
// API, as opposed to local validation or configuration.
func IsRemoteError(err error) bool {
	return errors.Is(err, ErrTransport) || errors.Is(err, ErrProtocol)
}
