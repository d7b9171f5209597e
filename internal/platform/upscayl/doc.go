// Package upscayl is the infrastructure adapter for the remote Upscayl API.
//
// It contains the two pieces that talk to or interpret the remote service:
//
// 1. Client:
//   - StartTask submits up to three images plus upscaling parameters as a
//     multipart form and returns the remote task handle
//   - GetStatus fetches the raw status payload of a task
//   - Input is validated locally before any request is made
//
// 2. Normalizer:
//   - Maps raw status payloads onto domain.TaskOutcome values
//   - Derives download URLs from direct URLs or relative paths
//   - Never fails, whatever shape the remote payload has
//
// Remote failures are reported as ErrTransport (the request never got a
// response) or ErrProtocol (the response was not what the API documents).
// IsTransient is the single place that decides whether such an error may be
// retried by a caller that is polling.
package upscayl
