// Package config loads application settings from viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/spice-categorizer/internal/categorize"
	"github.com/Veraticus/spice-categorizer/internal/common"
)

// Pattern sources.
const (
	SourceLocal = "local"
	SourceHTTP  = "http"
)

// Defaults.
const (
	DefaultDatabasePath = "~/.local/share/spice/spice.db"
	DefaultServerAddr   = ":8080"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
)

// Config holds every setting the CLI and server read.
type Config struct {
	Patterns PatternsConfig
	Server   ServerConfig
	Logging  LoggingConfig
	Database DatabaseConfig
}

// DatabaseConfig locates the SQLite store.
type DatabaseConfig struct {
	Path string
}

// PatternsConfig controls where the engine gets its merchant and keyword tables.
type PatternsConfig struct {
	Source        string
	URL           string
	FailurePolicy categorize.FailurePolicy
	TTL           time.Duration
}

// ServerConfig configures `spice serve`.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("patterns.source", SourceLocal)
	v.SetDefault("patterns.url", "")
	v.SetDefault("patterns.ttl", categorize.DefaultCacheTTL)
	v.SetDefault("patterns.failure_policy", string(categorize.FailClosed))
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}

// Load reads and validates the configuration held by the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		Database: DatabaseConfig{
			Path: ExpandPath(v.GetString("database.path")),
		},
		Patterns: PatternsConfig{
			Source:        strings.ToLower(strings.TrimSpace(v.GetString("patterns.source"))),
			URL:           strings.TrimSpace(v.GetString("patterns.url")),
			TTL:           v.GetDuration("patterns.ttl"),
			FailurePolicy: categorize.FailurePolicy(strings.ToLower(v.GetString("patterns.failure_policy"))),
		},
		Server: ServerConfig{
			Addr:           v.GetString("server.addr"),
			AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for inconsistent values.
func (c *Config) Validate() error {
	switch c.Patterns.Source {
	case SourceLocal:
	case SourceHTTP:
		if c.Patterns.URL == "" {
			return fmt.Errorf("%w: patterns.url is required when patterns.source is %q", common.ErrMissingConfig, SourceHTTP)
		}
	default:
		return fmt.Errorf("%w: patterns.source must be %q or %q, got %q",
			common.ErrInvalidConfig, SourceLocal, SourceHTTP, c.Patterns.Source)
	}

	if c.Patterns.TTL <= 0 {
		return fmt.Errorf("%w: patterns.ttl must be positive, got %s", common.ErrInvalidConfig, c.Patterns.TTL)
	}

	switch c.Patterns.FailurePolicy {
	case categorize.FailClosed, categorize.FailStale:
	default:
		return fmt.Errorf("%w: patterns.failure_policy must be %q or %q, got %q",
			common.ErrInvalidConfig, categorize.FailClosed, categorize.FailStale, c.Patterns.FailurePolicy)
	}

	if c.Database.Path == "" && c.Patterns.Source == SourceLocal {
		return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}

	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}

	return nil
}
