// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts multipart upscale requests onto the
// upscale orchestrator and maps its outcomes and errors onto HTTP status
// codes.
package api
