// Package config loads badlock settings from file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// ConfigName is the base name of the settings file, without extension.
const ConfigName = "badlock"

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "BADLOCK"

// Config holds all badlock settings.
type Config struct {
	// Device connection
	ADBPath    string        `mapstructure:"adb_path"`
	Serial     string        `mapstructure:"serial"`
	ADBTimeout time.Duration `mapstructure:"adb_timeout"`

	// Mirror access
	UserAgent       string        `mapstructure:"user_agent"`
	FeedTimeout     time.Duration `mapstructure:"feed_timeout"`
	DetailTimeout   time.Duration `mapstructure:"detail_timeout"`
	FallbackTimeout time.Duration `mapstructure:"fallback_timeout"`

	// Refresh
	StaleAfter    time.Duration `mapstructure:"stale_after"`
	Concurrency   int           `mapstructure:"concurrency"`
	WatchSchedule string        `mapstructure:"watch_schedule"`

	// Paths
	CacheDir    string `mapstructure:"cache_dir"`
	IconsDir    string `mapstructure:"icons_dir"`
	CatalogFile string `mapstructure:"catalog_file"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ADBPath:         "adb",
		ADBTimeout:      10 * time.Second,
		FeedTimeout:     15 * time.Second,
		DetailTimeout:   15 * time.Second,
		FallbackTimeout: 20 * time.Second,
		StaleAfter:      72 * time.Hour,
		Concurrency:     4,
		WatchSchedule:   "@every 1h",
		LogLevel:        "warn",
		LogFormat:       "console",
	}
}

// Loader reads configuration through its own viper instance so that
// command flags can be bound before Load.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader with defaults, search paths and environment
// overrides registered.
func NewLoader() *Loader {
	v := viper.New()

	setDefaults(v, DefaultConfig())

	v.SetConfigName(ConfigName)
	if dir, err := DefaultDir(); err == nil {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// Viper exposes the underlying instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load reads the settings file and merges environment and bound flag
// overrides. An explicit path must exist; a missing file in the search
// paths is not an error.
func (l *Loader) Load(path string) (*Config, error) {
	if path != "" {
		l.v.SetConfigFile(path)
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is a convenience wrapper for a fresh Loader.
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

// ConfigFile returns the file that was read, or "" when none was found.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// Watch reloads the configuration whenever the settings file changes and
// passes the result to onChange. Invalid edits are reported through onError
// and the previous configuration stays in effect.
func (l *Loader) Watch(onChange func(*Config), onError func(error)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg := DefaultConfig()
		if err := l.v.Unmarshal(cfg); err != nil {
			onError(fmt.Errorf("error unmarshaling config: %w", err))
			return
		}
		if err := cfg.Validate(); err != nil {
			onError(err)
			return
		}
		onChange(cfg)
	})
	l.v.WatchConfig()
}

// DefaultDir returns the settings directory, honouring XDG_CONFIG_HOME.
func DefaultDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, ConfigName), nil
}

// Keys lists every recognised setting, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaultValues(DefaultConfig())))
	for k := range defaultValues(DefaultConfig()) {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func setDefaults(v *viper.Viper, cfg *Config) {
	for k, val := range defaultValues(cfg) {
		v.SetDefault(k, val)
	}
}

// defaultValues registers every key with viper. AutomaticEnv only
// consults the environment for keys viper already knows about.
func defaultValues(cfg *Config) map[string]any {
	return map[string]any{
		"adb_path":         cfg.ADBPath,
		"serial":           cfg.Serial,
		"adb_timeout":      cfg.ADBTimeout,
		"user_agent":       cfg.UserAgent,
		"feed_timeout":     cfg.FeedTimeout,
		"detail_timeout":   cfg.DetailTimeout,
		"fallback_timeout": cfg.FallbackTimeout,
		"stale_after":      cfg.StaleAfter,
		"concurrency":      cfg.Concurrency,
		"watch_schedule":   cfg.WatchSchedule,
		"cache_dir":        cfg.CacheDir,
		"icons_dir":        cfg.IconsDir,
		"catalog_file":     cfg.CatalogFile,
		"log_level":        cfg.LogLevel,
		"log_format":       cfg.LogFormat,
	}
}

// ValidationError represents an invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"console", "json"}
)

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if c.ADBPath == "" {
		errs = append(errs, ValidationError{Field: "adb_path", Message: "required"}.Error())
	}

	for field, d := range map[string]time.Duration{
		"adb_timeout":      c.ADBTimeout,
		"feed_timeout":     c.FeedTimeout,
		"detail_timeout":   c.DetailTimeout,
		"fallback_timeout": c.FallbackTimeout,
		"stale_after":      c.StaleAfter,
	} {
		if d <= 0 {
			errs = append(errs, ValidationError{Field: field, Message: "must be positive"}.Error())
		}
	}

	if c.Concurrency < 1 {
		errs = append(errs, ValidationError{Field: "concurrency", Message: "must be at least 1"}.Error())
	}

	if _, err := cron.ParseStandard(c.WatchSchedule); err != nil {
		errs = append(errs, ValidationError{Field: "watch_schedule", Message: err.Error()}.Error())
	}

	if !contains(validLogLevels, c.LogLevel) {
		errs = append(errs, ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("invalid level %q (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", ")),
		}.Error())
	}
	if !contains(validLogFormats, c.LogFormat) {
		errs = append(errs, ValidationError{
			Field:   "log_format",
			Message: fmt.Sprintf("invalid format %q (must be one of: %s)", c.LogFormat, strings.Join(validLogFormats, ", ")),
		}.Error())
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
