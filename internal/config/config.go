package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppName        = "CardBank"
	defaultAppEnv         = "development"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultStoreFile      = "card.json"
	defaultSessionSecret  = "cardbank-dev-secret"
	defaultSessionTTL     = 15 * time.Minute
	defaultShutdownDelay  = 10 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour
	defaultCardAttempts   = 10_000
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName         string
	AppEnv          string
	Port            string
	LogLevel        string
	DatabaseURL     string
	StoreFile       string
	RedisURL        string
	AMQPURL         string
	SessionSecret   string
	SessionTTL      time.Duration
	ShutdownPeriod  time.Duration
	IdempotencyTTL  time.Duration
	CardMaxAttempts int
}

// Load reads a .env file when present, then populates a Config from the
// environment. Outside development the database, Redis and session secret
// must be configured explicitly.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		AppName:       getEnv("APP_NAME", defaultAppName),
		AppEnv:        getEnv("APP_ENV", defaultAppEnv),
		Port:          getEnv("PORT", defaultPort),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		StoreFile:     getEnv("STORE_FILE", defaultStoreFile),
		RedisURL:      os.Getenv("REDIS_URL"),
		AMQPURL:       os.Getenv("AMQP_URL"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
	}

	var err error
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", defaultSessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownPeriod, err = getDuration("SHUTDOWN_TIMEOUT", defaultShutdownDelay); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = getDuration("IDEMPOTENCY_TTL", defaultIdempotencyTTL); err != nil {
		return Config{}, err
	}

	cfg.CardMaxAttempts = defaultCardAttempts
	if v := os.Getenv("CARD_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid CARD_MAX_ATTEMPTS: %q", v)
		}
		cfg.CardMaxAttempts = n
	}

	if cfg.IsDev() {
		if cfg.SessionSecret == "" {
			cfg.SessionSecret = defaultSessionSecret
		}
		return cfg, nil
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL must be set")
	}
	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET must be set")
	}

	return cfg, nil
}

// IsDev reports whether the app runs in a development or test environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "", "dev", "development", "local", "test":
		return true
	}
	return false
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getDuration reads KEY_SECONDS as whole seconds, else KEY as a Go duration.
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(key + "_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s_SECONDS: %w", key, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return d, nil
	}
	return fallback, nil
}
