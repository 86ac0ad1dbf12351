package config

import (
	"testing"
	"time"
)

var configEnv = []string{
	"APP_NAME", "APP_ENV", "PORT", "LOG_LEVEL", "DATABASE_URL", "STORE_FILE",
	"REDIS_URL", "AMQP_URL", "SESSION_SECRET", "SESSION_TTL", "SESSION_TTL_SECONDS",
	"SHUTDOWN_TIMEOUT", "SHUTDOWN_TIMEOUT_SECONDS", "IDEMPOTENCY_TTL",
	"IDEMPOTENCY_TTL_SECONDS", "CARD_MAX_ATTEMPTS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppName != "CardBank" || cfg.StoreFile != "card.json" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionSecret == "" {
		t.Fatalf("expected dev session secret")
	}
	if cfg.SessionTTL != 15*time.Minute || cfg.IdempotencyTTL != 24*time.Hour || cfg.ShutdownPeriod != 10*time.Second {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
	if cfg.CardMaxAttempts != 10_000 {
		t.Fatalf("expected 10000 attempts, got %d", cfg.CardMaxAttempts)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("unexpected address %q", cfg.Address())
	}
}

func TestLoadDurations(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("IDEMPOTENCY_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SessionTTL != 5*time.Minute || cfg.ShutdownPeriod != 3*time.Second || cfg.IdempotencyTTL != time.Hour {
		t.Fatalf("unexpected durations: %+v", cfg)
	}

	t.Setenv("SESSION_TTL_SECONDS", "soon")
	if _, err := Load(); err == nil {
		t.Fatalf("expected invalid seconds to fail")
	}
}

func TestLoadRejectsBadAttempts(t *testing.T) {
	clearEnv(t)
	t.Setenv("CARD_MAX_ATTEMPTS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected zero attempts to fail")
	}
}

func TestLoadProductionRequiresBackends(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatalf("expected missing DATABASE_URL to fail")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/cardbank")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected missing SESSION_SECRET to fail")
	}

	t.Setenv("SESSION_SECRET", "s3cret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.IsDev() {
		t.Fatalf("production must not be dev")
	}
}
