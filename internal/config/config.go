// Package config provides centralized configuration for the converter
// service and its pipeline stages. Settings load from environment
// variables with sensible defaults and are validated on startup to fail
// fast on misconfiguration.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Enrich  EnrichConfig
	Submit  SubmitConfig
	Proxy   ProxyConfig
	Rate    RateLimitConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// MaxUploadSize caps workbook uploads in bytes (default: 100MB)
	MaxUploadSize int64 `env:"SERVER_MAX_UPLOAD_SIZE" default:"104857600"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// EnrichConfig holds enrichment-stage settings.
type EnrichConfig struct {
	// Concurrency bounds in-flight enrichment fetches (default: 5)
	Concurrency int `env:"ENRICH_CONCURRENCY" default:"5"`
}

// SubmitConfig holds submission-stage settings.
type SubmitConfig struct {
	// BatchSize is the fallback batch size when neither the CLI nor the
	// bundle configures one (default: 50)
	BatchSize int `env:"SUBMIT_BATCH_SIZE" default:"50"`
}

// ProxyConfig holds settings for the CORS pass-through endpoint.
type ProxyConfig struct {
	// Timeout aborts upstream requests that take too long (default: 10s)
	Timeout time.Duration `env:"PROXY_TIMEOUT" default:"10s"`

	// MaxResponseSize caps proxied response bodies in bytes (default: 10MB)
	MaxResponseSize int64 `env:"PROXY_MAX_RESPONSE_SIZE" default:"10485760"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled toggles rate limiting (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the per-IP budget (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is "text" or "json" (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Validate checks that the configuration is usable.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.MaxUploadSize <= 0 {
		errs = append(errs, "SERVER_MAX_UPLOAD_SIZE must be positive")
	}

	if c.Enrich.Concurrency <= 0 {
		errs = append(errs, "ENRICH_CONCURRENCY must be positive")
	}
	if c.Submit.BatchSize <= 0 {
		errs = append(errs, "SUBMIT_BATCH_SIZE must be positive")
	}

	if c.Proxy.Timeout <= 0 {
		errs = append(errs, "PROXY_TIMEOUT must be positive")
	}
	if c.Proxy.MaxResponseSize <= 0 {
		errs = append(errs, "PROXY_MAX_RESPONSE_SIZE must be positive")
	}

	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// String returns a loggable representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Server: {Host: %q, Port: %d}, Enrich: {Concurrency: %d}, Submit: {BatchSize: %d}, Proxy: {Timeout: %s}, Rate: {Enabled: %v, RequestsPerMinute: %d}, Logging: {Level: %q, Format: %q}}",
		c.Server.Host, c.Server.Port,
		c.Enrich.Concurrency,
		c.Submit.BatchSize,
		c.Proxy.Timeout,
		c.Rate.Enabled, c.Rate.RequestsPerMinute,
		c.Logging.Level, c.Logging.Format,
	)
}
