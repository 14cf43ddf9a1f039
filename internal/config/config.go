// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"book-discovery-service/internal/validator"
)

// Config holds all application configuration.
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	OpenLibrary ProviderEndpoint `mapstructure:"openlibrary"`
	Wikipedia   ProviderEndpoint `mapstructure:"wikipedia"`
	Search      SearchConfig     `mapstructure:"search"`
	Session     SessionConfig    `mapstructure:"session"`
	Logger      LoggerConfig     `mapstructure:"logger"`
	Sentry      SentryConfig     `mapstructure:"sentry"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name         string `mapstructure:"name" validate:"required"`
	Env          string `mapstructure:"env" validate:"oneof=development staging production"`
	Port         int    `mapstructure:"port" validate:"min=1,max=65535"`
	Debug        bool   `mapstructure:"debug"`
	TemplatesDir string `mapstructure:"templates_dir"`
	StaticDir    string `mapstructure:"static_dir"`
}

// ProviderEndpoint holds a single upstream API's configuration.
type ProviderEndpoint struct {
	BaseURL   string          `mapstructure:"base_url" validate:"required,url"`
	Timeout   time.Duration   `mapstructure:"timeout" validate:"gt=0"`
	UserAgent string          `mapstructure:"user_agent"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	CB        CBConfig        `mapstructure:"circuit_breaker"`
}

// RateLimitConfig holds outbound rate limiting settings.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"min=0"`
	Burst             int     `mapstructure:"burst" validate:"min=0"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio" validate:"gt=0,lte=1"`
}

// SearchConfig holds search session and suggestion settings.
type SearchConfig struct {
	PageSize            int           `mapstructure:"page_size" validate:"min=1,max=100"`
	SuggestionDelay     time.Duration `mapstructure:"suggestion_delay" validate:"gt=0"`
	SuggestionLimit     int           `mapstructure:"suggestion_limit" validate:"min=1,max=8"`
	SuggestionFetchSize int           `mapstructure:"suggestion_fetch_size" validate:"min=1,max=100"`
	RecentChangesLimit  int           `mapstructure:"recent_changes_limit" validate:"min=1,max=50"`
}

// SessionConfig holds per-visitor session settings.
type SessionConfig struct {
	CookieName   string        `mapstructure:"cookie_name" validate:"required"`
	IdleTTL      time.Duration `mapstructure:"idle_ttl" validate:"gt=0"`
	ReapInterval time.Duration `mapstructure:"reap_interval" validate:"gt=0"`
	MaxSessions  int           `mapstructure:"max_sessions" validate:"min=1"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn" validate:"required_if=Enabled true"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate" validate:"min=0,max=1"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	// Environment variable settings
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validator.New().Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "book-discovery-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)
	v.SetDefault("app.templates_dir", "./web/templates")
	v.SetDefault("app.static_dir", "./web/static")

	// Open Library defaults
	v.SetDefault("openlibrary.base_url", "https://openlibrary.org")
	v.SetDefault("openlibrary.timeout", "10s")
	v.SetDefault("openlibrary.user_agent", "book-discovery-service/1.0")
	v.SetDefault("openlibrary.rate_limit.requests_per_second", 5)
	v.SetDefault("openlibrary.rate_limit.burst", 5)
	v.SetDefault("openlibrary.circuit_breaker.max_requests", 3)
	v.SetDefault("openlibrary.circuit_breaker.interval", "60s")
	v.SetDefault("openlibrary.circuit_breaker.timeout", "30s")
	v.SetDefault("openlibrary.circuit_breaker.failure_ratio", 0.5)

	// Wikipedia defaults
	v.SetDefault("wikipedia.base_url", "https://en.wikipedia.org")
	v.SetDefault("wikipedia.timeout", "10s")
	v.SetDefault("wikipedia.user_agent", "book-discovery-service/1.0")
	v.SetDefault("wikipedia.rate_limit.requests_per_second", 5)
	v.SetDefault("wikipedia.rate_limit.burst", 5)
	v.SetDefault("wikipedia.circuit_breaker.max_requests", 3)
	v.SetDefault("wikipedia.circuit_breaker.interval", "60s")
	v.SetDefault("wikipedia.circuit_breaker.timeout", "30s")
	v.SetDefault("wikipedia.circuit_breaker.failure_ratio", 0.5)

	// Search defaults
	v.SetDefault("search.page_size", 20)
	v.SetDefault("search.suggestion_delay", "80ms")
	v.SetDefault("search.suggestion_limit", 8)
	v.SetDefault("search.suggestion_fetch_size", 15)
	v.SetDefault("search.recent_changes_limit", 10)

	// Session defaults
	v.SetDefault("session.cookie_name", "bds_session")
	v.SetDefault("session.idle_ttl", "30m")
	v.SetDefault("session.reap_interval", "1m")
	v.SetDefault("session.max_sessions", 1000)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)
}
