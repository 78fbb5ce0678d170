package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultAppName       = "fxledger"
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultSnapshotPath  = "data/accounts.json"
	defaultRatesRefresh  = 15 * time.Minute
	defaultShutdownDelay = 10 * time.Second
)

// Config captures application runtime configuration loaded from environment
// variables. DatabaseURL and RedisURL are optional: without them the service
// falls back to the file snapshot store and the in-memory session directory.
type Config struct {
	AppName        string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	SnapshotPath   string
	RatesURL       string
	RatesRefresh   time.Duration
	ShutdownPeriod time.Duration
}

// Load reads configuration values from the environment.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		SnapshotPath:   getEnv("SNAPSHOT_PATH", defaultSnapshotPath),
		RatesURL:       os.Getenv("RATES_URL"),
		RatesRefresh:   defaultRatesRefresh,
		ShutdownPeriod: defaultShutdownDelay,
	}

	if v := os.Getenv("RATES_REFRESH"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RATES_REFRESH: %w", err)
		}
		cfg.RatesRefresh = d
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownPeriod = d
	}

	return cfg, nil
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
