package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreAuto     = "auto"
	StorePostgres = "postgres"
	StoreSupabase = "supabase"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port            string
	Env             string // development, staging, production
	ScanHTTPTimeout time.Duration

	// Signal store
	StoreBackend string
	Database     DatabaseConfig
	Supabase     SupabaseConfig

	// Redis
	Redis RedisConfig

	// Pipeline
	Scanner    ScannerConfig
	MarketData MarketDataConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// SupabaseConfig holds the PostgREST endpoint of a hosted signal store
type SupabaseConfig struct {
	URL   string
	Key   string
	Table string
}

// ScannerConfig holds the thresholds of the scan pipeline.
type ScannerConfig struct {
	BatchSize       int     `validate:"gt=0"`
	ScoreThreshold  int     `validate:"gte=0"`
	MinPrice        float64 `validate:"gte=0"`
	MinDollarVolume float64 `validate:"gte=0"`

	BatchDelay     time.Duration `validate:"gte=0"`
	FastFilterDays int           `validate:"gt=0"`
	HistoryDays    int           `validate:"gte=200"`
	HeadlineCount  int           `validate:"gte=0"`

	FetchConcurrency int `validate:"gte=1"`

	FallbackOnEmpty  bool
	UniverseCacheTTL time.Duration `validate:"gte=0"`

	Schedule string `validate:"required"`
}

// MarketDataConfig holds upstream market data endpoints
type MarketDataConfig struct {
	NasdaqScreenerURL string  `validate:"required,url"`
	SP500URL          string  `validate:"required,url"`
	YahooQueryURL     string  `validate:"required,url"`
	RequestsPerSecond float64 `validate:"gt=0"`
	UserAgent         string
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		ScanHTTPTimeout: getEnvAsDuration("SCAN_HTTP_TIMEOUT", "30m"),

		StoreBackend: getEnv("STORE_BACKEND", StoreAuto),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Supabase: SupabaseConfig{
			URL:   getEnv("SUPABASE_URL", ""),
			Key:   getEnv("SUPABASE_KEY", ""),
			Table: getEnv("SUPABASE_TABLE", "sniper_signals"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Scanner: ScannerConfig{
			BatchSize:        getEnvAsInt("BATCH_SIZE", 300),
			ScoreThreshold:   getEnvAsInt("SCORE_THRESHOLD", 75),
			MinPrice:         getEnvAsFloat("MIN_PRICE", 2.0),
			MinDollarVolume:  getEnvAsFloat("MIN_DOLLAR_VOLUME", 5_000_000),
			BatchDelay:       getEnvAsDuration("BATCH_DELAY", "1s"),
			FastFilterDays:   getEnvAsInt("FAST_FILTER_DAYS", 5),
			HistoryDays:      getEnvAsInt("HISTORY_DAYS", 365),
			HeadlineCount:    getEnvAsInt("HEADLINE_COUNT", 3),
			FetchConcurrency: getEnvAsInt("FETCH_CONCURRENCY", 8),
			FallbackOnEmpty:  getEnvAsBool("UNIVERSE_FALLBACK_ON_EMPTY", true),
			UniverseCacheTTL: getEnvAsDuration("UNIVERSE_CACHE_TTL", "6h"),
			Schedule:         getEnv("SCAN_SCHEDULE", "0 30 16 * * 1-5"), // 평일 16:30 (with seconds)
		},

		MarketData: MarketDataConfig{
			NasdaqScreenerURL: getEnv("NASDAQ_SCREENER_URL", "https://api.nasdaq.com/api/screener/stocks?tableonly=true&limit=25&offset=0&download=true"),
			SP500URL:          getEnv("SP500_URL", "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"),
			YahooQueryURL:     getEnv("YAHOO_QUERY_URL", "https://query2.finance.yahoo.com"),
			RequestsPerSecond: getEnvAsFloat("YAHOO_REQUESTS_PER_SECOND", 5),
			UserAgent:         getEnv("HTTP_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// ResolvedStore returns the store backend after resolving "auto"
func (c *Config) ResolvedStore() string {
	if c.StoreBackend != StoreAuto {
		return c.StoreBackend
	}
	if c.Database.URL != "" {
		return StorePostgres
	}
	return StoreSupabase
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.StoreBackend {
	case StoreAuto, StorePostgres, StoreSupabase:
	default:
		return fmt.Errorf("STORE_BACKEND must be one of: auto, postgres, supabase")
	}

	// A signal store is required
	switch c.ResolvedStore() {
	case StorePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	case StoreSupabase:
		if c.Supabase.URL == "" || c.Supabase.Key == "" {
			return fmt.Errorf("DATABASE_URL or SUPABASE_URL and SUPABASE_KEY are required")
		}
	}

	v := validator.New()
	if err := v.Struct(c.Scanner); err != nil {
		return fmt.Errorf("scanner: %w", err)
	}
	if err := v.Struct(c.MarketData); err != nil {
		return fmt.Errorf("market data: %w", err)
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env",         // Current directory
		"backend/.env", // From project root
	}

	// Also try relative to executable
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

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
