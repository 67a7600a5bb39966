// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Storage selects the event store backend: memory or postgres.
	Storage string `koanf:"storage"`

	// PostgresDSN is the connection string used when Storage is postgres.
	PostgresDSN string `koanf:"postgres_dsn"`

	// AuthTokens maps bearer tokens to owner identities.
	AuthTokens map[string]string `koanf:"auth_tokens"`

	// FeedName is the display name of the exported iCalendar feed.
	FeedName string `koanf:"feed_name"`
}

// New creates a Config using defaults. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:    "info",
		Addr:        ":8080",
		Storage:     "memory",
		PostgresDSN: "",
		AuthTokens:  map[string]string{},
		FeedName:    "agenda",
	}
	return c
}
