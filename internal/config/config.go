package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  validate:"required"`
	Remote  RemoteConfig  `mapstructure:"remote"  validate:"required"`
	Polling PollingConfig `mapstructure:"polling" validate:"required"`
	Auth    AuthConfig    `mapstructure:"auth"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// RemoteConfig describes the remote Upscayl API.
type RemoteConfig struct {
	APIURL       string `mapstructure:"api_url"        validate:"required,url"`
	APIKey       string `mapstructure:"api_key"        validate:"required"`
	AssetBaseURL string `mapstructure:"asset_base_url" validate:"required,url"`

	StartTimeoutSeconds  int `mapstructure:"start_timeout_seconds"  validate:"required,gt=0"`
	StatusTimeoutSeconds int `mapstructure:"status_timeout_seconds" validate:"required,gt=0"`
}

// StartTimeout bounds a single start-task call.
func (c RemoteConfig) StartTimeout() time.Duration {
	return time.Duration(c.StartTimeoutSeconds) * time.Second
}

// StatusTimeout bounds a single get-task-status call.
func (c RemoteConfig) StatusTimeout() time.Duration {
	return time.Duration(c.StatusTimeoutSeconds) * time.Second
}

// PollingConfig controls how long synchronous upscales wait for a task.
type PollingConfig struct {
	MaxWaitSeconds int `mapstructure:"max_wait_seconds" validate:"required,gt=0"`
}

// MaxWait is the default polling deadline.
func (c PollingConfig) MaxWait() time.Duration {
	return time.Duration(c.MaxWaitSeconds) * time.Second
}

// AuthConfig contains the optional bearer-token gate settings.
// Authentication is disabled when JWTSecret is empty.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"omitempty,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// Enabled reports whether bearer tokens are required.
func (c AuthConfig) Enabled() bool {
	return c.JWTSecret != ""
}

// TokenLifetime is how long minted tokens stay valid.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}
