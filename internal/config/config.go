package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Mongo        MongoConfig
	Redis        RedisConfig
	RateLimit    RateLimitConfig
	Logger       LoggerConfig
	Customer     CustomerConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	// LegacyStatus answers domain errors with HTTP 200 and success=false.
	LegacyStatus bool
}

// MongoConfig holds document store connection values.
type MongoConfig struct {
	URI               string
	Database          string
	ConnectTimeoutSec int
	MaxPoolSize       uint64
	EnsureIndexes     bool
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig bounds requests per client IP. Max 0 disables limiting.
type RateLimitConfig struct {
	Max           int
	WindowSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
	// Format is "json" or "console".
	Format string
}

// CustomerConfig tunes customer account handling.
type CustomerConfig struct {
	BcryptCost int
}

// NotificationConfig holds stub notification endpoints. QueueSize 0 delivers
// notifications inline with the request.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
	QueueSize  int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	uri := os.Getenv("DB_URL")
	if uri == "" {
		return nil, errors.New("DB_URL is required")
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "support-desk"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			LegacyStatus:          getEnvAsBool("API_LEGACY_STATUS", false),
		},
		Mongo: MongoConfig{
			URI:               uri,
			Database:          getEnv("MONGO_DATABASE", "support"),
			ConnectTimeoutSec: getEnvAsInt("MONGO_CONNECT_TIMEOUT_SECONDS", 10),
			MaxPoolSize:       uint64(getEnvAsInt("MONGO_MAX_POOL_SIZE", 50)),
			EnsureIndexes:     getEnvAsBool("MONGO_ENSURE_INDEXES", true),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		RateLimit: RateLimitConfig{
			Max:           getEnvAsInt("RATE_LIMIT_MAX", 0),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Customer: CustomerConfig{
			BcryptCost: getEnvAsInt("CUSTOMER_BCRYPT_COST", 12),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", ""),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
			QueueSize:  getEnvAsInt("NOTIFY_QUEUE_SIZE", 256),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ConnectTimeout returns the initial connection timeout.
func (m MongoConfig) ConnectTimeout() time.Duration {
	if m.ConnectTimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(m.ConnectTimeoutSec) * time.Second
}

// Enabled reports whether a limit is configured.
func (r RateLimitConfig) Enabled() bool {
	return r.Max > 0
}

// Window returns the limiter expiration window.
func (r RateLimitConfig) Window() time.Duration {
	if r.WindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(r.WindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
