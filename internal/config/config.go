// Package config reads the server settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting the server reads at startup.
type Config struct {
	// HTTP server
	Port         string
	SecretKey    string
	SecureCookie bool

	// Database
	DatabaseLocation string

	// Exchange rates
	RateAPIKey     string
	RateAPIURL     string
	RateAPITimeout time.Duration
	RateCacheTTL   time.Duration
	BaseCurrency   string

	// Logging
	LogLevel  string
	LogFormat string

	// AMQP, disabled when the URL is empty
	AMQPURL      string
	AMQPExchange string

	// Optional user created at startup when missing
	AdminUser     string
	AdminPassword string
}

// Load builds a Config from environment variables, applying defaults for
// anything unset.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		SecretKey:    getEnv("SECRET_KEY", ""),
		SecureCookie: getEnvBool("SECURE_COOKIE", false),

		DatabaseLocation: getEnv("DB_PATH", "expenses.db"),

		RateAPIKey:     getEnv("RATE_API_KEY", ""),
		RateAPIURL:     getEnv("RATE_API_URL", "https://v6.exchangerate-api.com/v6"),
		RateAPITimeout: getEnvDuration("RATE_API_TIMEOUT", 10*time.Second),
		RateCacheTTL:   getEnvDuration("RATE_CACHE_TTL", 0),
		BaseCurrency:   strings.ToUpper(getEnv("BASE_CURRENCY", "CAD")),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finance"),

		AdminUser:     getEnv("ADMIN_USER", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DatabaseLocation == "" {
		errors = append(errors, "database location cannot be empty")
	}

	if !isCurrencyCode(c.BaseCurrency) {
		errors = append(errors, fmt.Sprintf("invalid base currency '%s': must be a 3-letter code", c.BaseCurrency))
	}

	if c.RateAPIURL != "" {
		if u, err := url.Parse(c.RateAPIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errors = append(errors, fmt.Sprintf("invalid rate API URL '%s': must be http or https", c.RateAPIURL))
		}
	}
	if c.RateAPITimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid rate API timeout %v: must be positive", c.RateAPITimeout))
	}
	if c.RateCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid rate cache TTL %v: must not be negative", c.RateCacheTTL))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of [text json]", c.LogFormat))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if (c.AdminUser == "") != (c.AdminPassword == "") {
		errors = append(errors, "ADMIN_USER and ADMIN_PASSWORD must be set together")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
