// Package config provides application configuration management.
// It loads configuration from environment variables with sensible defaults.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Ledger backends.
const (
	LedgerBackendMemory = "memory"
	LedgerBackendSQL    = "sql"
	LedgerBackendRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	API      APIConfig
	Polling  PollingConfig
	Tracking TrackingConfig
	Ledger   LedgerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Email    EmailConfig
	Log      LogConfig
}

// ServerConfig holds the companion HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Environment  string
	// APIToken, when set, is required as a bearer token on /api/v1 routes.
	APIToken      string
	RefreshLimit  int
	RefreshWindow time.Duration
}

// APIConfig holds the fitness REST API client configuration.
type APIConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// PollingConfig holds the per-kind poll intervals.
type PollingConfig struct {
	Enabled          bool
	GoalsInterval    time.Duration
	WaterInterval    time.Duration
	WorkoutsInterval time.Duration
}

// TrackingConfig holds the transition and message tuning.
type TrackingConfig struct {
	DailyWaterGoalMl int
	DedupeWindow     time.Duration
	Timezone         string
}

// Location resolves Timezone, falling back to UTC.
func (c TrackingConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LedgerConfig selects where the idempotency ledger lives.
type LedgerConfig struct {
	Backend   string
	Namespace string
}

// DatabaseConfig holds the SQL ledger database configuration.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// IsPostgres returns true when URL points at a postgres server.
func (c DatabaseConfig) IsPostgres() bool {
	return strings.HasPrefix(c.URL, "postgres://") || strings.HasPrefix(c.URL, "postgresql://")
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	URL      string
	PoolSize int
}

// EmailConfig holds celebration e-mail configuration.
type EmailConfig struct {
	Enabled        bool
	ResendAPIKey   string
	FromName       string
	FromEmail      string
	RecipientEmail string
	RecipientName  string
	AppBaseURL     string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:          getEnv("SERVER_HOST", "127.0.0.1"),
			Port:          getEnvAsInt("SERVER_PORT", 8090),
			ReadTimeout:   getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:  getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			Environment:   getEnv("ENV", "development"),
			APIToken:      getEnv("COMPANION_API_TOKEN", ""),
			RefreshLimit:  getEnvAsInt("REFRESH_RATE_LIMIT", 30),
			RefreshWindow: getEnvAsDuration("REFRESH_RATE_WINDOW", time.Minute),
		},
		API: APIConfig{
			BaseURL:        getEnv("FITNESS_API_URL", "http://localhost:3000"),
			Token:          getEnv("FITNESS_API_TOKEN", ""),
			Timeout:        getEnvAsDuration("FITNESS_API_TIMEOUT", 10*time.Second),
			MaxRetries:     getEnvAsInt("FITNESS_API_MAX_RETRIES", 3),
			InitialBackoff: getEnvAsDuration("FITNESS_API_INITIAL_BACKOFF", 200*time.Millisecond),
			MaxBackoff:     getEnvAsDuration("FITNESS_API_MAX_BACKOFF", 5*time.Second),
		},
		Polling: PollingConfig{
			Enabled:          getEnvAsBool("POLLING_ENABLED", true),
			GoalsInterval:    getEnvAsDuration("POLL_GOALS_INTERVAL", 30*time.Second),
			WaterInterval:    getEnvAsDuration("POLL_WATER_INTERVAL", 30*time.Second),
			WorkoutsInterval: getEnvAsDuration("POLL_WORKOUTS_INTERVAL", time.Minute),
		},
		Tracking: TrackingConfig{
			DailyWaterGoalMl: getEnvAsInt("DAILY_WATER_GOAL_ML", 2000),
			DedupeWindow:     getEnvAsDuration("MESSAGE_DEDUPE_WINDOW", 3000*time.Millisecond),
			Timezone:         getEnv("TZ_NAME", "UTC"),
		},
		Ledger: LedgerConfig{
			Backend:   getEnv("LEDGER_BACKEND", LedgerBackendMemory),
			Namespace: getEnv("LEDGER_NAMESPACE", ""),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", "file:companion.db?_pragma=busy_timeout(5000)"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),
			PoolSize: getEnvAsInt("REDIS_POOL_SIZE", 0),
		},
		Email: EmailConfig{
			Enabled:        getEnvAsBool("CELEBRATION_EMAIL_ENABLED", false),
			ResendAPIKey:   getEnv("RESEND_API_KEY", ""),
			FromName:       getEnv("RESEND_FROM_NAME", "Fitness Tracker"),
			FromEmail:      getEnv("RESEND_FROM_EMAIL", "onboarding@resend.dev"),
			RecipientEmail: getEnv("CELEBRATION_EMAIL_TO", ""),
			RecipientName:  getEnv("CELEBRATION_EMAIL_NAME", ""),
			AppBaseURL:     getEnv("APP_BASE_URL", "http://localhost:5173"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
