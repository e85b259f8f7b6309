package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Ledger backends
const (
	BackendMemory   = "memory"
	BackendFirebase = "firebase"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendS3       = "s3"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Ledger store
	LedgerBackend   string
	LedgerNamespace string
	Firebase        FirebaseConfig
	DatabaseURL     string
	SQLitePath      string
	S3              S3Config

	// Engine
	CacheTTL       time.Duration
	EpochPeriod    string // YYYY-MM, empty when the ledger has no fixed start
	OpeningBalance *decimal.Decimal
	SummaryTopN    int

	// Rate limiting
	RateLimitPerMinute int
	RateLimitBurst     int
}

// FirebaseConfig holds the Realtime Database REST settings
type FirebaseConfig struct {
	URL       string
	AuthToken string
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		CORSOrigins:     strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:             getEnv("ENV", "development"),
		LedgerBackend:   strings.ToLower(getEnv("LEDGER_BACKEND", BackendMemory)),
		LedgerNamespace: getEnv("LEDGER_NAMESPACE", "finance"),
		Firebase: FirebaseConfig{
			URL:       strings.TrimRight(getEnv("FIREBASE_URL", ""), "/"),
			AuthToken: getEnv("FIREBASE_AUTH_TOKEN", ""),
		},
		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", "ledger.db"),
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", ""),
			Prefix:          getEnv("S3_PREFIX", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Empty = use AWS, set for MinIO/LocalStack
		},
		EpochPeriod: getEnv("EPOCH_PERIOD", ""),
	}

	var err error
	if cfg.CacheTTL, err = time.ParseDuration(getEnv("CACHE_TTL", "5m")); err != nil {
		return nil, fmt.Errorf("CACHE_TTL: %w", err)
	}
	if cfg.SummaryTopN, err = getEnvInt("SUMMARY_TOP_N", 5); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}
	if raw := getEnv("OPENING_BALANCE", ""); raw != "" {
		opening, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("OPENING_BALANCE: %w", err)
		}
		cfg.OpeningBalance = &opening
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	switch c.LedgerBackend {
	case BackendMemory:
	case BackendFirebase:
		if c.Firebase.URL == "" {
			return fmt.Errorf("FIREBASE_URL is required for the firebase backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown LEDGER_BACKEND %q", c.LedgerBackend)
	}

	if c.EpochPeriod != "" {
		if _, err := time.Parse("2006-01", c.EpochPeriod); err != nil {
			return fmt.Errorf("EPOCH_PERIOD must be YYYY-MM: %w", err)
		}
	}
	if c.OpeningBalance != nil && c.EpochPeriod == "" {
		return fmt.Errorf("OPENING_BALANCE requires EPOCH_PERIOD")
	}
	if c.SummaryTopN < 1 {
		return fmt.Errorf("SUMMARY_TOP_N must be positive")
	}
	if c.RateLimitPerMinute < 1 || c.RateLimitBurst < 1 {
		return fmt.Errorf("rate limit values must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}
