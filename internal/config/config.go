package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Push     PushConfig
	Jobs     JobsConfig
}

// ServerConfig holds HTTP server settings. There is no write timeout:
// the stream endpoints hold their connections open indefinitely.
type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
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

// AuthConfig holds token verification settings. Tokens are minted by an
// external identity provider; this service only verifies them.
type AuthConfig struct {
	PublicKeyPath string
	Issuer        string
}

// PushConfig holds push gateway settings
type PushConfig struct {
	GatewayURL string
	Timeout    time.Duration
}

// JobsConfig holds background job schedules (cron spec syntax)
type JobsConfig struct {
	UpcomingSweepSchedule    string
	ReminderDispatchSchedule string
	WatcherBackoff           time.Duration
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			AllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "8000"),
			Namespace: getEnv("DB_NAMESPACE", "colony"),
			Database:  getEnv("DB_DATABASE", "main"),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", "root"),
		},
		Auth: AuthConfig{
			PublicKeyPath: getEnv("AUTH_PUBLIC_KEY_PATH", "./keys/public.pem"),
			Issuer:        getEnv("AUTH_ISSUER", ""),
		},
		Push: PushConfig{
			GatewayURL: getEnv("PUSH_GATEWAY_URL", "https://exp.host/--/api/v2/push/send"),
			Timeout:    getDurationEnv("PUSH_TIMEOUT", 10*time.Second),
		},
		Jobs: JobsConfig{
			UpcomingSweepSchedule:    getEnv("JOBS_UPCOMING_SWEEP_SCHEDULE", "@every 5m"),
			ReminderDispatchSchedule: getEnv("JOBS_REMINDER_DISPATCH_SCHEDULE", "@every 1m"),
			WatcherBackoff:           getDurationEnv("JOBS_WATCHER_BACKOFF", 5*time.Second),
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

	// Auth validation - critical for production
	if c.IsProduction() && c.Auth.PublicKeyPath == "" {
		errs = append(errs, errors.New("AUTH_PUBLIC_KEY_PATH is required in production"))
	}

	// Push validation
	if c.Push.GatewayURL == "" {
		errs = append(errs, errors.New("PUSH_GATEWAY_URL is required"))
	}
	if c.Push.Timeout <= 0 {
		errs = append(errs, errors.New("PUSH_TIMEOUT must be positive"))
	}

	// Jobs validation
	if c.Jobs.UpcomingSweepSchedule == "" {
		errs = append(errs, errors.New("JOBS_UPCOMING_SWEEP_SCHEDULE is required"))
	}
	if c.Jobs.ReminderDispatchSchedule == "" {
		errs = append(errs, errors.New("JOBS_REMINDER_DISPATCH_SCHEDULE is required"))
	}
	if c.Jobs.WatcherBackoff <= 0 {
		errs = append(errs, errors.New("JOBS_WATCHER_BACKOFF must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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

