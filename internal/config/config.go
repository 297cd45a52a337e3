package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB      DatabaseConfig
	Redis   RedisConfig
	Ledger  LedgerConfig
	Paygate PaygateConfig
	Worker  WorkerConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// LedgerConfig contains marketplace ledger parameters.
type LedgerConfig struct {
	// OwnerAddress is the platform owner principal. Admin-only
	// operations authorize against it.
	OwnerAddress string
	// DefaultServicePct seeds the service fee when the settings row
	// does not exist yet. Percent, 0-100.
	DefaultServicePct int
	// SessionTTL bounds principal and admin token lifetime.
	SessionTTL time.Duration
}

// PaygateConfig contains credentials for the settlement gateway that
// executes native-currency transfers (withdrawals and refunds).
type PaygateConfig struct {
	BaseURL string
	APIKey  string
	Secret  string
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	PayoutInterval    time.Duration
	PayoutMaxAttempts int
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Ledger
	cfg.Ledger = LedgerConfig{
		OwnerAddress:      getEnv("OWNER_ADDRESS", ""),
		DefaultServicePct: getEnvInt("DEFAULT_SERVICE_PCT", 5),
	}

	// Paygate (settlement gateway)
	cfg.Paygate = PaygateConfig{
		BaseURL: getEnv("PAYGATE_BASE_URL", ""),
		APIKey:  getEnv("PAYGATE_API_KEY", ""),
		Secret:  getEnv("PAYGATE_SECRET", ""),
	}

	// Durations
	var err error
	if cfg.Ledger.SessionTTL, err = parseDurationEnv("SESSION_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if cfg.Worker.PayoutInterval, err = parseDurationEnv("PAYOUT_RETRY_INTERVAL", "1m"); err != nil {
		return nil, fmt.Errorf("invalid PAYOUT_RETRY_INTERVAL: %w", err)
	}
	cfg.Worker.PayoutMaxAttempts = getEnvInt("PAYOUT_MAX_ATTEMPTS", 10)

	// Basic validation.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}
	if cfg.Ledger.OwnerAddress == "" {
		return nil, errors.New("OWNER_ADDRESS must be set to the platform owner principal")
	}
	if cfg.Ledger.DefaultServicePct < 0 || cfg.Ledger.DefaultServicePct > 100 {
		return nil, errors.New("DEFAULT_SERVICE_PCT must be between 0 and 100")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
