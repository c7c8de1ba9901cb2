// Package config provides centralized configuration management for the service.
// It loads settings from environment variables with sensible defaults, loads the
// region profile that drives the partition pipeline, and validates everything on
// startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Ingest   IngestConfig
	Sheets   SheetsConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Source   ProfileSource

	// Profile is the region partition profile. It is not populated from env
	// tags; Load fills it from RegionsFile or the built-in default.
	Profile Profile
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8000)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8000"`

	// ReadTimeout is the maximum duration for reading request body (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing response (default: 90s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"90s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// UploadConfig holds spreadsheet upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed upload size in bytes (default: 50MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"52428800"`

	// FormField is the multipart field carrying the file (default: file)
	FormField string `env:"UPLOAD_FORM_FIELD" default:"file"`
}

// IngestConfig bounds how many tables are built at once.
type IngestConfig struct {
	// MaxConcurrent is the maximum number of simultaneous ingestions (default: 8)
	MaxConcurrent int `env:"INGEST_MAX_CONCURRENT" default:"8"`

	// MaxWaitTime is how long a request waits for an ingestion slot (default: 15s)
	MaxWaitTime time.Duration `env:"INGEST_MAX_WAIT_TIME" default:"15s"`
}

// SheetsConfig holds settings for the remote spreadsheet adapter.
type SheetsConfig struct {
	// CredentialsFile is the service-account JSON used for read-only access.
	// SERVICE_ACCOUNT_FILE is kept for compatibility with existing deployments.
	CredentialsFile string `env:"SERVICE_ACCOUNT_FILE" envAlt:"GOOGLE_APPLICATION_CREDENTIALS"`

	// Endpoint overrides the Sheets API base URL (tests and proxies only)
	Endpoint string `env:"SHEETS_ENDPOINT"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey enables X-API-Key validation on data routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ProfileSource selects where the region profile comes from.
type ProfileSource struct {
	// RegionsFile is an optional YAML file replacing the built-in profile
	RegionsFile string `env:"REGIONS_FILE"`

	// IncludeAll forces the all-rows bucket on, regardless of the profile
	IncludeAll bool `env:"PROFILE_INCLUDE_ALL" default:"false"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
