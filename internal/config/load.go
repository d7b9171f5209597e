package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// UPSCAYL_SERVER_PORT for server.port.
const EnvPrefix = "UPSCAYL"

// legacyEnv maps keys onto the environment variable names used by earlier
// deployments. The prefixed name wins when both are set.
var legacyEnv = map[string]string{
	"remote.api_key": "UPSCAYLE_API_KEY",
	"remote.api_url": "UPSCAYLE_API_URL",
}

// setDefaults registers every key so that environment-only configuration is
// picked up by Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8046)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("remote.api_url", "https://api.upscayl.org")
	v.SetDefault("remote.api_key", "")
	v.SetDefault("remote.asset_base_url", "https://upscayl.org")
	v.SetDefault("remote.start_timeout_seconds", 30)
	v.SetDefault("remote.status_timeout_seconds", 10)

	v.SetDefault("polling.max_wait_seconds", 1200)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 60)
}

// Load configuration from environment variables and optionally a config.yaml
// file in the working directory.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom behaves like Load but looks for config.yaml in dir.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
