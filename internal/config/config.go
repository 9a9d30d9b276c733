package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	LiveKit  LiveKitConfig
	Webhook  WebhookConfig
	Jobs     JobsConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// AuthConfig holds identity token verification settings
type AuthConfig struct {
	TokenSecret string
	TokenIssuer string
	TokenTTL    time.Duration
}

// LiveKitConfig holds media provider credentials and endpoints
type LiveKitConfig struct {
	Host      string
	APIKey    string
	APISecret string
	TokenTTL  time.Duration
}

// WebhookConfig holds provider webhook verification settings
type WebhookConfig struct {
	SharedSecret string
}

// JobsConfig holds background job settings
type JobsConfig struct {
	ReconcileEnabled  bool
	ReconcileInterval time.Duration
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			AllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "8000"),
			Namespace: getEnv("DB_NAMESPACE", "studycam"),
			Database:  getEnv("DB_DATABASE", "main"),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", "root"),
		},
		Auth: AuthConfig{
			TokenSecret: getEnv("AUTH_TOKEN_SECRET", ""),
			TokenIssuer: getEnv("AUTH_TOKEN_ISSUER", "studycam"),
			TokenTTL:    getDurationEnv("AUTH_TOKEN_TTL", 24*time.Hour),
		},
		LiveKit: LiveKitConfig{
			Host:      getEnv("LIVEKIT_HOST", "http://localhost:7880"),
			APIKey:    getEnv("LIVEKIT_API_KEY", ""),
			APISecret: getEnv("LIVEKIT_API_SECRET", ""),
			TokenTTL:  getDurationEnv("LIVEKIT_TOKEN_TTL", 6*time.Hour),
		},
		Webhook: WebhookConfig{
			SharedSecret: getEnv("WEBHOOK_SHARED_SECRET", ""),
		},
		Jobs: JobsConfig{
			ReconcileEnabled:  getBoolEnv("RECONCILE_ENABLED", true),
			ReconcileInterval: getDurationEnv("RECONCILE_INTERVAL", 5*time.Minute),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Database validation
	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}

	// Auth validation
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("AUTH_TOKEN_TTL must be positive"))
	}

	// LiveKit validation - credentials required outside development
	if c.LiveKit.Host == "" {
		errs = append(errs, errors.New("LIVEKIT_HOST is required"))
	}
	if c.IsProduction() {
		if c.Auth.TokenSecret == "" {
			errs = append(errs, errors.New("AUTH_TOKEN_SECRET is required in production"))
		}
		if c.LiveKit.APIKey == "" {
			errs = append(errs, errors.New("LIVEKIT_API_KEY is required in production"))
		}
		if c.LiveKit.APISecret == "" {
			errs = append(errs, errors.New("LIVEKIT_API_SECRET is required in production"))
		}
		if c.Webhook.SharedSecret == "" {
			errs = append(errs, errors.New("WEBHOOK_SHARED_SECRET is required in production"))
		}
	}
	if c.LiveKit.TokenTTL <= 0 {
		errs = append(errs, errors.New("LIVEKIT_TOKEN_TTL must be positive"))
	}

	// Jobs validation
	if c.Jobs.ReconcileEnabled && c.Jobs.ReconcileInterval <= 0 {
		errs = append(errs, errors.New("RECONCILE_INTERVAL must be positive when RECONCILE_ENABLED is true"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ProviderConfigured returns true if media provider credentials are set
func (c *LiveKitConfig) ProviderConfigured() bool {
	return c.APIKey != "" && c.APISecret != ""
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
