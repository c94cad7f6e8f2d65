package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func envViper() {
	resetViper()
	viper.SetEnvPrefix("PICKGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Source", cfg.Source, ""},
		{"Destination", cfg.Destination, ""},
		{"Output", cfg.Output, "selection.toml"},
		{"Format", cfg.Format, "toml"},
		{"Scope", cfg.Scope, "full"},
		{"Verbose", cfg.Verbose, false},
		{"Filter.Mode", cfg.Filter.Mode, "substring"},
		{"Filter.Debounce", cfg.Filter.Debounce, 300 * time.Millisecond},
		{"Cache.Size", cfg.Cache.Size, 16},
		{"Log.Mode", cfg.Log.Mode, "dev"},
		{"Log.Level", cfg.Log.Level, "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "source",
			envKey: "PICKGRAPH_SOURCE",
			envVal: "/tmp/source.toml",
			field:  func(c Config) any { return c.Source },
			want:   "/tmp/source.toml",
		},
		{
			name:   "scope",
			envKey: "PICKGRAPH_SCOPE",
			envVal: "topics",
			field:  func(c Config) any { return c.Scope },
			want:   "topics",
		},
		{
			name:   "filter.mode",
			envKey: "PICKGRAPH_FILTER_MODE",
			envVal: "fuzzy",
			field:  func(c Config) any { return c.Filter.Mode },
			want:   "fuzzy",
		},
		{
			name:   "filter.debounce",
			envKey: "PICKGRAPH_FILTER_DEBOUNCE",
			envVal: "50ms",
			field:  func(c Config) any { return c.Filter.Debounce },
			want:   50 * time.Millisecond,
		},
		{
			name:   "cache.size",
			envKey: "PICKGRAPH_CACHE_SIZE",
			envVal: "4",
			field:  func(c Config) any { return c.Cache.Size },
			want:   4,
		},
		{
			name:   "verbose raises the default level",
			envKey: "PICKGRAPH_VERBOSE",
			envVal: "true",
			field:  func(c Config) any { return c.Log.Level },
			want:   "debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envViper()
			os.Setenv(tt.envKey, tt.envVal)
			defer os.Unsetenv(tt.envKey)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key string
		val any
	}{
		{"scope", "spaces"},
		{"format", "xml"},
		{"filter.mode", "regex"},
		{"cache.size", 0},
		{"log.mode", "loud"},
		{"log.level", "trace"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			resetViper()
			viper.Set(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("Load() accepted %s=%v", tt.key, tt.val)
			}
		})
	}
}
