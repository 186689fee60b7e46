// Package config provides configuration types and defaults for lensdock.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/lensdock/injectable"
	"github.com/lensdock/injectable/reactive"
)

// Config holds all configuration options for lensdock.
type Config struct {
	ClusterFile   string          `mapstructure:"cluster_file"`
	Namespaces    []string        `mapstructure:"namespaces"`     // empty selects every namespace
	LinkDirs      []string        `mapstructure:"link_dirs"`      // relative to the working directory
	Flags         map[string]bool `mapstructure:"flags"`          // feature flags keyed by tab flag name
	WatchDebounce time.Duration   `mapstructure:"watch_debounce"` // cluster file reload debounce
	Log           LogConfig       `mapstructure:"log"`
	Tracing       TracingConfig   `mapstructure:"tracing"`
}

// LogConfig holds debug log options.
type LogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Level   string `mapstructure:"level"` // debug, info, warn or error
}

// TracingConfig holds tracing options for container injections.
type TracingConfig struct {
	// Enabled controls whether spans are recorded.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`

	ServiceName string `mapstructure:"service_name"`
}

// FlagEnabled reports whether the named feature flag is on. Flags that are
// not configured are on.
func (c Config) FlagEnabled(name string) bool {
	if name == "" {
		return true
	}
	on, ok := c.Flags[name]
	return !ok || on
}

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	return Config{
		ClusterFile:   "",
		Namespaces:    nil,
		LinkDirs:      nil,
		Flags:         map[string]bool{},
		WatchDebounce: 250 * time.Millisecond,
		Log: LogConfig{
			Enabled: false,
			Path:    "lensdock.log",
			Level:   "info",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
			ServiceName:  "lensdock",
		},
	}
}

// SetDefaults registers Defaults on v so partial config files keep the
// remaining values.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("cluster_file", d.ClusterFile)
	v.SetDefault("watch_debounce", d.WatchDebounce)
	v.SetDefault("log.enabled", d.Log.Enabled)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// Load reads the configuration into v and decodes it.
//
// With an explicit cfgFile only that file is read. Otherwise the lookup order
// is .lensdock/config.yaml in the current directory, then
// ~/.config/lensdock/config.yaml. Finding no file at all is not an error.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if _, err := os.Stat(filepath.Join(".lensdock", "config.yaml")); err == nil {
		v.SetConfigFile(filepath.Join(".lensdock", "config.yaml"))
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "lensdock"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Flags == nil {
		cfg.Flags = map[string]bool{}
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges that decoding cannot.
func Validate(cfg Config) error {
	if cfg.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce must not be negative, got %s", cfg.WatchDebounce)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", cfg.Log.Level)
	}

	switch cfg.Tracing.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\" or \"otlp\", got %q", cfg.Tracing.Exporter)
	}
	if cfg.Tracing.SampleRate < 0.0 || cfg.Tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", cfg.Tracing.SampleRate)
	}

	for _, dir := range cfg.LinkDirs {
		if filepath.IsAbs(dir) {
			return fmt.Errorf("link_dirs must be relative to the working directory, got %q", dir)
		}
	}
	return nil
}

// StateInjectable holds the live configuration. Features read it inside
// computed values and eligibility predicates, so setting a new Config
// re-evaluates them.
var StateInjectable = injectable.Define("config-state", func(ctx *injectable.ResolveCtx) (*reactive.Cell[Config], error) {
	return injectable.NewCell(ctx, Defaults()), nil
})
