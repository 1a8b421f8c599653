package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr           = ":8080"
	defaultDirectoryBaseURL   = "https://dummyjson.com"
	defaultDirectoryTimeout   = 30 * time.Second
	defaultPageSize           = 6
	defaultSessionLifetime    = 24 * time.Hour
	defaultDashboardSweep     = 10 * time.Minute
	defaultSessionStoreMemory = SessionStoreMemory
)

// Session store backends.
const (
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
)

type Config struct {
	HTTPAddr               string
	DirectoryBaseURL       string
	DirectoryTimeout       time.Duration
	PageSize               int
	SessionStore           string
	DatabaseURL            string
	RedisAddr              string
	RedisPassword          string
	SessionLifetime        time.Duration
	SessionIdleTimeout     time.Duration
	AuthCookieSecure       bool
	MetricsAddr            string
	DashboardSweepInterval time.Duration
}

type LoadOptions struct {
	RequireDatabaseURL bool
}

func Load() (Config, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadForMigrations loads config for commands that always talk to Postgres.
func LoadForMigrations() (Config, error) {
	return LoadWithOptions(LoadOptions{RequireDatabaseURL: true})
}

func LoadWithOptions(opts LoadOptions) (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, err
		}
	}

	cfg := Config{
		HTTPAddr:               getenvDefault("HTTP_ADDR", defaultHTTPAddr),
		DirectoryBaseURL:       strings.TrimRight(getenvDefault("DIRECTORY_BASE_URL", defaultDirectoryBaseURL), "/"),
		DirectoryTimeout:       getenvDurationDefault("DIRECTORY_TIMEOUT", defaultDirectoryTimeout),
		PageSize:               getenvIntDefault("PAGE_SIZE", defaultPageSize),
		SessionStore:           strings.ToLower(strings.TrimSpace(getenvDefault("SESSION_STORE", defaultSessionStoreMemory))),
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		RedisAddr:              strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		SessionLifetime:        getenvDurationDefault("SESSION_LIFETIME", defaultSessionLifetime),
		AuthCookieSecure:       getenvBoolDefault("AUTH_COOKIE_SECURE", false),
		MetricsAddr:            strings.TrimSpace(os.Getenv("METRICS_ADDR")),
		DashboardSweepInterval: getenvDurationDefault("DASHBOARD_SWEEP_INTERVAL", defaultDashboardSweep),
	}

	if v := os.Getenv("SESSION_IDLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SessionIdleTimeout = d
		}
	}

	switch cfg.SessionStore {
	case SessionStoreMemory:
	case SessionStorePostgres:
		if cfg.DatabaseURL == "" {
			return cfg, errors.New("DATABASE_URL is required when SESSION_STORE=postgres")
		}
	case SessionStoreRedis:
		if cfg.RedisAddr == "" {
			return cfg, errors.New("REDIS_ADDR is required when SESSION_STORE=redis")
		}
	default:
		return cfg, fmt.Errorf("SESSION_STORE must be one of: %s, %s, %s", SessionStoreMemory, SessionStorePostgres, SessionStoreRedis)
	}

	if opts.RequireDatabaseURL && cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func getenvDurationDefault(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getenvBoolDefault(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch v {
	case "1":
		return true
	case "0":
		return false
	default:
		return def
	}
}
