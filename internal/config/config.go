// Package config loads Hermes's process configuration with viper, giving
// flag > environment > file > default precedence for every key.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the full set of settings a Hermes process needs to boot.
type Config struct {
	// RootName is the name of the root table every key must begin with.
	RootName string

	// LoggerDirectory is where hermes.af and human.log are kept. Empty
	// disables durable logging.
	LoggerDirectory string

	// InitialDataFile, if set, is loaded as key/value pairs at startup,
	// after replay and before the coordinator accepts other requests.
	InitialDataFile string

	// InitialHookFile, if set, is loaded as prefix/link pairs the same way.
	InitialHookFile string

	// LogLevel and LogFormat configure internal/observability.
	LogLevel  string
	LogFormat string

	// HookTimeout is read from hook_timeout. It is not passed to the
	// coordinator, which bounds its wait for hook manager replies on
	// control operations with its own fixed 2-second timeout.
	HookTimeout time.Duration

	// HookClientTimeout bounds the HTTP client used for outbound webhook
	// POSTs.
	HookClientTimeout time.Duration

	// HookRateLimitPerSecond, if greater than zero, caps outbound webhook
	// POST throughput.
	HookRateLimitPerSecond float64
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("root_name", "root")
	v.SetDefault("logger_directory", "")
	v.SetDefault("initial_data_file", "")
	v.SetDefault("initial_hook_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("hook_timeout", 2*time.Second)
	v.SetDefault("hook_client_timeout", 5*time.Second)
	v.SetDefault("hook_rate_limit", float64(0))
}

// Load reads configuration from an optional file at path (may be empty),
// the HERMES_-prefixed environment, and defaults. Environment variables
// override the file, and the file overrides defaults (viper also layers
// in any flags bound by the caller before Load runs, above all three).
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)

	v.SetEnvPrefix("hermes")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
	}

	cfg := &Config{
		RootName:               v.GetString("root_name"),
		LoggerDirectory:        v.GetString("logger_directory"),
		InitialDataFile:        v.GetString("initial_data_file"),
		InitialHookFile:        v.GetString("initial_hook_file"),
		LogLevel:               v.GetString("log_level"),
		LogFormat:              v.GetString("log_format"),
		HookTimeout:            v.GetDuration("hook_timeout"),
		HookClientTimeout:      v.GetDuration("hook_client_timeout"),
		HookRateLimitPerSecond: v.GetFloat64("hook_rate_limit"),
	}

	if cfg.RootName == "" {
		return nil, fmt.Errorf("config: root_name must not be empty")
	}

	return cfg, nil
}
