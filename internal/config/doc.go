// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, files). It provides type-safe
// access to application settings needed by different components while keeping
// configuration details separate from business logic.
//
// Every key can be set through an UPSCAYL_-prefixed environment variable,
// for example UPSCAYL_REMOTE_API_KEY or UPSCAYL_POLLING_MAX_WAIT_SECONDS.
package config
