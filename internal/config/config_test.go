package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ANUBIS_BASE_URL", "http://anubis.local")
	t.Setenv("ANUBIS_ADMIN_KEY", "admin-key-123")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_AnubisBaseURLRequired(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ANUBIS_BASE_URL", "")
	t.Setenv("ANUBIS_ADMIN_KEY", "admin-key-123")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when ANUBIS_BASE_URL is empty")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PushRequiresBaseURLWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PUSH_ENABLED", "true")
	t.Setenv("PUSH_BASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PUSH_ENABLED=true without PUSH_BASE_URL")
	}
}

func TestLoad_PushConfigParsing(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PUSH_ENABLED", "true")
	t.Setenv("PUSH_BASE_URL", "https://push.matchday.app")
	t.Setenv("PUSH_API_KEY", "push-key-456")
	t.Setenv("PUSH_TIMEOUT", "4s")
	t.Setenv("PUSH_CIRCUIT_FAILURE_COUNT", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.PushEnabled {
		t.Fatalf("expected PushEnabled=true")
	}
	if cfg.PushBaseURL != "https://push.matchday.app" {
		t.Fatalf("unexpected PushBaseURL: %q", cfg.PushBaseURL)
	}
	if cfg.PushAPIKey != "push-key-456" {
		t.Fatalf("unexpected PushAPIKey")
	}
	if cfg.PushTimeout != 4*time.Second {
		t.Fatalf("unexpected PushTimeout: %s", cfg.PushTimeout)
	}
	if cfg.PushCircuitFailureCount != 3 {
		t.Fatalf("unexpected PushCircuitFailureCount: %d", cfg.PushCircuitFailureCount)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_NotifyWorkersValidation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("NOTIFY_WORKERS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when NOTIFY_WORKERS < 1")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "matchday-api" {
		t.Fatalf("unexpected ServiceName: %q", cfg.ServiceName)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.AnubisIntrospectPath != "/v1/auth/introspect" {
		t.Fatalf("unexpected AnubisIntrospectPath: %q", cfg.AnubisIntrospectPath)
	}
	if !cfg.CacheEnabled || cfg.CacheTTL != time.Minute {
		t.Fatalf("unexpected cache defaults: enabled=%v ttl=%s", cfg.CacheEnabled, cfg.CacheTTL)
	}
	if cfg.NotifyWorkers != 4 {
		t.Fatalf("unexpected NotifyWorkers: %d", cfg.NotifyWorkers)
	}
}
