package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Config stores the server configuration, populated from the environment.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	DatabaseURL     string // postgres; empty selects sqlite
	SQLitePath      string
	ChampionData    string // Data Dragon champion.json; empty uses the embedded seed
	WSOrigins       []string
	ShutdownTimeout time.Duration
}

func (c Config) Addr() string { return ":" + c.Port }

func (c Config) Production() bool { return c.Env == "production" }

// Load reads .env when present, then the environment.
func Load() (Config, error) {
	// missing .env is fine outside local development
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (Config, error) {
	getEnv := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		return fallback
	}

	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("APP_ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		SQLitePath:   getEnv("SQLITE_PATH", "drafts.db"),
		ChampionData: getEnv("CHAMPION_DATA", ""),
	}

	var errs []error
	if p, err := strconv.Atoi(cfg.Port); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, fmt.Errorf("PORT: invalid port %q", cfg.Port))
	}
	if cfg.Env != "development" && cfg.Env != "production" {
		errs = append(errs, fmt.Errorf("APP_ENV: want development or production, got %q", cfg.Env))
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	timeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT: invalid duration %q", os.Getenv("SHUTDOWN_TIMEOUT")))
	}
	cfg.ShutdownTimeout = timeout

	for _, o := range strings.Split(getEnv("WS_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.WSOrigins = append(cfg.WSOrigins, o)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
