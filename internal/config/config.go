// Package config provides configuration management for the markup
// toolchain using Viper for flexible loading from files, environment
// variables, and command-line flags.
//
// Configuration is read from .changerawr.yml, overridable per key with
// the CHANGERAWR_ env prefix (CHANGERAWR_ENGINE_CUM_ENABLED,
// CHANGERAWR_SERVER_PORT, ...) and bound flags.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	apperrors "github.com/Supernova3339/changerawr-sub000/internal/errors"
)

// Config is the root configuration for all commands.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// EngineConfig controls which grammar the markup engine is built with.
type EngineConfig struct {
	// CUMEnabled registers the CUM directive dialect. Disabled
	// deployments do not recognize the syntax at all; it renders as
	// plain markdown.
	CUMEnabled bool `yaml:"cum_enabled" mapstructure:"cum_enabled"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// SetDefaults registers defaults with viper; called before binding
// flags so explicit values always win.
func SetDefaults() {
	viper.SetDefault("engine.cum_enabled", true)
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8321)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}

// Load unmarshals the current viper state into a validated Config.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, apperrors.NewConfigError("unmarshaling configuration", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return apperrors.NewValidationError(fmt.Sprintf("server port %d out of range", cfg.Server.Port))
	}
	if cfg.Server.Host == "" {
		return apperrors.NewValidationError("server host must not be empty")
	}
	switch cfg.Log.Format {
	case "", "text", "json":
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unknown log format %q", cfg.Log.Format))
	}
	return nil
}
