package config

import (
	"strings"
	"testing"
	"time"
)

func validBaseConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      "8000",
			Namespace: "colony",
			Database:  "main",
		},
		Auth: AuthConfig{
			PublicKeyPath: "./keys/public.pem",
		},
		Push: PushConfig{
			GatewayURL: "https://exp.host/--/api/v2/push/send",
			Timeout:    10 * time.Second,
		},
		Jobs: JobsConfig{
			UpcomingSweepSchedule:    "@every 5m",
			ReminderDispatchSchedule: "@every 1m",
			WatcherBackoff:           5 * time.Second,
		},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	if err := validBaseConfig().Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestConfig_Validate_InvalidServerEnv(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Env = "invalid"

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for invalid SERVER_ENV")
	}
	if !strings.Contains(err.Error(), "SERVER_ENV") {
		t.Errorf("expected error to mention SERVER_ENV, got: %v", err)
	}
}

func TestConfig_Validate_MissingPort(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Port = ""

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for missing SERVER_PORT")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("expected error to mention SERVER_PORT, got: %v", err)
	}
}

func TestConfig_Validate_MissingDatabaseHost(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database.Host = ""

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for missing DB_HOST")
	}
	if !strings.Contains(err.Error(), "DB_HOST") {
		t.Errorf("expected error to mention DB_HOST, got: %v", err)
	}
}

func TestConfig_Validate_ProductionRequiresPublicKey(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Env = "production"
	cfg.Auth.PublicKeyPath = ""

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for missing AUTH_PUBLIC_KEY_PATH in production")
	}
	if !strings.Contains(err.Error(), "AUTH_PUBLIC_KEY_PATH") {
		t.Errorf("expected error to mention AUTH_PUBLIC_KEY_PATH, got: %v", err)
	}
}

func TestConfig_Validate_DevelopmentAllowsMissingPublicKey(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Auth.PublicKeyPath = ""

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config in development without a public key, got: %v", err)
	}
}

func TestConfig_Validate_BadPushTimeout(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Push.Timeout = 0

	err := cfg.Validate()
	if err == nil {
		t.Error("expected error for non-positive PUSH_TIMEOUT")
	}
	if !strings.Contains(err.Error(), "PUSH_TIMEOUT") {
		t.Errorf("expected error to mention PUSH_TIMEOUT, got: %v", err)
	}
}

func TestConfig_Validate_CollectsMultipleErrors(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Port = ""
	cfg.Database.Namespace = ""
	cfg.Jobs.WatcherBackoff = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, want := range []string{"SERVER_PORT", "DB_NAMESPACE", "JOBS_WATCHER_BACKOFF"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected joined error to mention %s, got: %v", want, err)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Database.Namespace != "colony" {
		t.Errorf("expected default namespace colony, got %s", cfg.Database.Namespace)
	}
	if cfg.Push.GatewayURL == "" {
		t.Error("expected a default push gateway URL")
	}
	if cfg.Jobs.UpcomingSweepSchedule != "@every 5m" {
		t.Errorf("expected default sweep schedule, got %s", cfg.Jobs.UpcomingSweepSchedule)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("PUSH_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected port override, got %s", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("expected host override, got %s", cfg.Database.Host)
	}
	if cfg.Push.Timeout != 3*time.Second {
		t.Errorf("expected timeout override, got %v", cfg.Push.Timeout)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("expected 2 origins, got %v", cfg.Server.AllowedOrigins)
	}
}
