// Package config loads pickgraph settings through viper and validates them.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// FilterConfig controls the picker search box.
type FilterConfig struct {
	Mode     string        `mapstructure:"mode" validate:"oneof=substring fuzzy"`
	Debounce time.Duration `mapstructure:"debounce" validate:"gte=0"`
}

// CacheConfig sizes the parsed-catalog cache.
type CacheConfig struct {
	Size int `mapstructure:"size" validate:"gte=1"`
}

// LogConfig selects the zap preset and level.
type LogConfig struct {
	Mode  string `mapstructure:"mode" validate:"oneof=dev prod"`
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// Config holds all runtime configuration for a pickgraph run.
// Values are populated from .pickgraph.yaml, PICKGRAPH_* env vars, and CLI flags.
type Config struct {
	Source      string       `mapstructure:"source"`
	Destination string       `mapstructure:"destination"`
	Output      string       `mapstructure:"output"`
	Format      string       `mapstructure:"format" validate:"oneof=toml yaml yml json"`
	Scope       string       `mapstructure:"scope" validate:"oneof=full topics"`
	Verbose     bool         `mapstructure:"verbose"`
	Journal     string       `mapstructure:"journal"`
	Filter      FilterConfig `mapstructure:"filter"`
	Cache       CacheConfig  `mapstructure:"cache"`
	Log         LogConfig    `mapstructure:"log"`
}

var validate = validator.New()

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags, then validates it.
func Load() (Config, error) {
	viper.SetDefault("source", "")
	viper.SetDefault("destination", "")
	viper.SetDefault("output", "selection.toml")
	viper.SetDefault("format", "toml")
	viper.SetDefault("scope", "full")
	viper.SetDefault("verbose", false)
	viper.SetDefault("journal", "")
	viper.SetDefault("filter.mode", "substring")
	viper.SetDefault("filter.debounce", 300*time.Millisecond)
	viper.SetDefault("cache.size", 16)
	viper.SetDefault("log.mode", "dev")
	viper.SetDefault("log.level", "info")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Verbose && cfg.Log.Level == "info" {
		cfg.Log.Level = "debug"
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
