package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// Only this package reads environment variables.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// CORS
	AllowedOrigins []string

	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Market    MarketConfig
	Predictor PredictorConfig
	Ledger    LedgerConfig
	News      NewsConfig
	Screener  ScreenerConfig
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// AuthConfig holds identity-provider settings. Tokens are HS256 JWTs with
// the user id in the "sub" claim.
type AuthConfig struct {
	JWTSecret string
}

// MarketConfig holds price-history source settings.
type MarketConfig struct {
	BaseURL       string
	Lookback      int           // trading sessions of daily history to request
	Timeout       time.Duration
	RatePerSecond float64       // request rate towards the chart API
	CacheTTL      time.Duration // redis TTL for fetched history
}

// PredictorConfig holds classifier service settings.
type PredictorConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration // redis TTL for recommendations
}

// LedgerConfig holds portfolio ledger settings.
type LedgerConfig struct {
	StartingCash string // decimal string, granted on first portfolio access
	MaxRetries   int    // optimistic-concurrency retries per trade
}

// NewsConfig holds the headline scraper settings.
type NewsConfig struct {
	BaseURL  string
	CacheTTL time.Duration
}

// ScreenerConfig points at the pre-built screener dataset.
type ScreenerConfig struct {
	DataPath string
}

// SchedulerConfig controls the watchlist alert sweep.
type SchedulerConfig struct {
	Enabled       bool
	AlertSchedule string // cron expression with seconds field
}

// Load reads configuration from environment variables, with .env support.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port:           getEnv("PORT", "8090"),
		Env:            getEnv("ENV", "development"),
		AllowedOrigins: []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},

		Market: MarketConfig{
			BaseURL:       getEnv("MARKET_BASE_URL", "https://query1.finance.yahoo.com"),
			Lookback:      getEnvAsInt("MARKET_LOOKBACK", 500),
			Timeout:       getEnvAsDuration("MARKET_TIMEOUT", "30s"),
			RatePerSecond: getEnvAsFloat("MARKET_RATE_PER_SECOND", 5),
			CacheTTL:      getEnvAsDuration("MARKET_CACHE_TTL", "5m"),
		},

		Predictor: PredictorConfig{
			BaseURL:  getEnv("PREDICTOR_BASE_URL", "http://localhost:8000"),
			Timeout:  getEnvAsDuration("PREDICTOR_TIMEOUT", "15s"),
			CacheTTL: getEnvAsDuration("PREDICTOR_CACHE_TTL", "10m"),
		},

		Ledger: LedgerConfig{
			StartingCash: getEnv("LEDGER_STARTING_CASH", "100000.00"),
			MaxRetries:   getEnvAsInt("LEDGER_MAX_RETRIES", 5),
		},

		News: NewsConfig{
			BaseURL:  getEnv("NEWS_BASE_URL", "https://finance.yahoo.com"),
			CacheTTL: getEnvAsDuration("NEWS_CACHE_TTL", "15m"),
		},

		Screener: ScreenerConfig{
			DataPath: getEnv("SCREENER_DATA_PATH", "data/screener.json"),
		},

		Scheduler: SchedulerConfig{
			Enabled:       getEnvAsBool("SCHEDULER_ENABLED", false),
			AlertSchedule: getEnv("ALERT_SCHEDULE", "0 0 * * * *"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Market.Lookback < 200 {
		return fmt.Errorf("MARKET_LOOKBACK must be at least 200 sessions")
	}

	if c.Ledger.MaxRetries < 1 {
		return fmt.Errorf("LEDGER_MAX_RETRIES must be positive")
	}

	return nil
}

// loadEnvFile tries to load .env from a few likely locations.
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		fallback, _ := time.ParseDuration(defaultValue)
		return fallback
	}
	return value
}
