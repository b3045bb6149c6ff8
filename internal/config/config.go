// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Functions that touch the environment or files accept context.Context first.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CatalogPath optionally points at a YAML file overriding metric
	// definitions and quadrant pairs.
	CatalogPath string `koanf:"catalog_path"`

	// UpstreamBaseURL is the stats API serving category envelopes.
	UpstreamBaseURL string `koanf:"upstream_base_url"`

	// UpstreamToken is sent as a bearer token when set.
	UpstreamToken string `koanf:"upstream_token"`

	// FetchTimeoutMS bounds a single upstream request.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// FetchMaxRetries caps retries of a failed category fetch.
	FetchMaxRetries int `koanf:"fetch_max_retries"`

	// FetchConcurrency caps parallel category fetches per view.
	FetchConcurrency int `koanf:"fetch_concurrency"`

	// DefaultMinMinutes is the minutes-played floor when a request sets none.
	DefaultMinMinutes float64 `koanf:"default_min_minutes"`

	// MaxBodyBytes caps both upstream responses and inbound request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// AssetURLTemplate renders entity image URLs; {type} and {id} are
	// replaced. Empty disables images.
	AssetURLTemplate string `koanf:"asset_url_template"`
}

// New creates a Config with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		UpstreamBaseURL:   "http://localhost:8080/api",
		FetchTimeoutMS:    5_000,
		FetchMaxRetries:   2,
		FetchConcurrency:  runtime.NumCPU(),
		DefaultMinMinutes: 0,
		MaxBodyBytes:      8 << 20,
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.UpstreamBaseURL == "":
		return fmt.Errorf("%w: upstream_base_url must not be empty", ErrInvalidConfig)
	case c.FetchTimeoutMS <= 0:
		return fmt.Errorf("%w: fetch_timeout_ms must be positive", ErrInvalidConfig)
	case c.FetchMaxRetries < 0:
		return fmt.Errorf("%w: fetch_max_retries must not be negative", ErrInvalidConfig)
	case c.FetchConcurrency <= 0:
		return fmt.Errorf("%w: fetch_concurrency must be positive", ErrInvalidConfig)
	case c.DefaultMinMinutes < 0:
		return fmt.Errorf("%w: default_min_minutes must not be negative", ErrInvalidConfig)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
