package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	Port            string
	HTTPBindAddr    string
	Environment     string
	LoggingConfig   LoggingConfig
	RedisConfig     RedisConfig
	SessionConfig   SessionConfig
	PricingConfig   PricingConfig
	RulesFile       string
	ShutdownTimeout time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Prefix   string
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// SessionConfig controls where login sessions live and how long.
type SessionConfig struct {
	Backend       string
	TTL           time.Duration
	PurgeSchedule string
}

// PricingConfig holds the selling currency and the rate list
// ("USD:1.0,EUR:0.85").
type PricingConfig struct {
	TargetCurrency string
	Rates          string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "30m"))
	if err != nil || sessionTTL <= 0 {
		sessionTTL = 30 * time.Minute
	}
	shutdownTimeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		shutdownTimeout = 10 * time.Second
	}
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	backend := strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendMemory))
	if backend != SessionBackendMemory && backend != SessionBackendRedis {
		return nil, fmt.Errorf("invalid SESSION_BACKEND %q, expected %q or %q", backend, SessionBackendMemory, SessionBackendRedis)
	}

	return &Config{
		Port:         getEnv("PORT", "8080"),
		HTTPBindAddr: getEnv("HTTP_BIND_ADDR", ""),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LoggingConfig: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		RedisConfig: RedisConfig{
			Host:     getEnv("REDIS_HOST", "redis"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			Prefix:   getEnv("REDIS_PREFIX", "hotels"),
		},
		SessionConfig: SessionConfig{
			Backend:       backend,
			TTL:           sessionTTL,
			PurgeSchedule: getEnv("SESSION_PURGE_SCHEDULE", "@every 1m"),
		},
		PricingConfig: PricingConfig{
			TargetCurrency: strings.ToUpper(getEnv("PRICING_TARGET_CURRENCY", "EUR")),
			Rates:          getEnv("PRICING_RATES", "USD:1.0,EUR:0.85,GBP:1.17"),
		},
		RulesFile:       getEnv("RULES_FILE", ""),
		ShutdownTimeout: shutdownTimeout,
	}, nil
}

// TestConfig returns an in-memory configuration for tests
func TestConfig() *Config {
	return &Config{
		Port:          "0",
		Environment:   "test",
		LoggingConfig: LoggingConfig{Level: "error", Format: "text"},
		RedisConfig:   RedisConfig{Host: "localhost", Port: "6379", Prefix: "hotels_test"},
		SessionConfig: SessionConfig{
			Backend:       SessionBackendMemory,
			TTL:           30 * time.Minute,
			PurgeSchedule: "@every 1m",
		},
		PricingConfig: PricingConfig{
			TargetCurrency: "EUR",
			Rates:          "USD:1.0,EUR:0.85,GBP:1.17",
		},
		ShutdownTimeout: time.Second,
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if len(strings.TrimSpace(value)) == 0 {
		return defaultValue
	}
	return strings.TrimSpace(value)
}
