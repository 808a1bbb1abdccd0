package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only acceptable when Env is "dev".
const DefaultJWTSecret = "ledger-default-dev-secret-change-me"

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Env      string
	Port     int
	LogLevel string

	// Database
	DatabaseURL string

	// JWT / Auth
	JWTSecret    string
	JWTAccessTTL time.Duration

	// Object storage
	GCSBucket         string
	GCSSignerEmail    string
	GCSPrivateKeyFile string
	SignedURLTTL      time.Duration
	ReceiptTimezone   string

	// Locks
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LockTTL       time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Observability
	OTLPEndpoint string
}

// LoadDotEnv reads a .env file into the environment without overriding
// variables that are already set.
func LoadDotEnv(paths ...string) error {
	return godotenv.Load(paths...)
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Env:      getEnv("APP_ENV", "dev"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", "ledger.db"),

		JWTSecret:    getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTAccessTTL: getEnvDuration("JWT_ACCESS_TTL", 24*time.Hour),

		GCSBucket:         getEnv("GCS_BUCKET", ""),
		GCSSignerEmail:    getEnv("GCS_SIGNER_EMAIL", ""),
		GCSPrivateKeyFile: getEnv("GCS_PRIVATE_KEY_FILE", ""),
		SignedURLTTL:      getEnvDuration("SIGNED_URL_TTL", 60*time.Second),
		ReceiptTimezone:   getEnv("RECEIPT_TIMEZONE", "America/Sao_Paulo"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		LockTTL:       getEnvDuration("LOCK_TTL", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

// Validate rejects configurations that must not reach production.
func (c *Config) Validate() error {
	var errs []error
	if c.Env != "dev" && c.JWTSecret == DefaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set outside dev"))
	}
	if c.GCSBucket == "" {
		errs = append(errs, errors.New("GCS_BUCKET is required"))
	}
	if c.SignedURLTTL <= 0 {
		errs = append(errs, errors.New("SIGNED_URL_TTL must be positive"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, errors.New("PORT out of range"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
