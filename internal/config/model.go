package config

import "time"

// Config is the root configuration for the client and CLI.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Challenge ChallengeConfig `mapstructure:"challenge"`
	Login     LoginConfig     `mapstructure:"login"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// APIConfig points the client at the dashboard.
type APIConfig struct {
	Endpoint  string        `mapstructure:"endpoint"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// CacheConfig controls session persistence.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// ChallengeConfig bounds the two-factor exchange.
type ChallengeConfig struct {
	MaxAttempts int `mapstructure:"max_attempts"`
}

// LoginConfig tunes login behavior.
type LoginConfig struct {
	// Identity is the default account email for CLI commands that
	// need one and were not given a flag.
	Identity string `mapstructure:"identity"`

	// VerifyCached issues one authenticated probe after rehydrating a
	// cached session. Off by default: a cached login makes no network
	// calls at all until the first query.
	VerifyCached bool `mapstructure:"verify_cached"`
}

// LoggingConfig mirrors the logrus settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
