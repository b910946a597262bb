package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Auth0
	Auth0Domain   string
	Auth0Audience string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// S3 report archive (optional)
	S3 S3Config

	// QuickBooks sync (optional)
	QuickBooks QuickBooksConfig

	// Bulk operations
	Bulk BulkConfig
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
	ReportURLExpiry time.Duration
}

// Enabled reports whether batch reports should be archived
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// QuickBooksConfig configures the bill sync endpoint
type QuickBooksConfig struct {
	SyncURL          string
	SyncToken        string
	RequestsPerMin   int
	Timeout          time.Duration
	RetrySchedule    string
	RetryMaxAttempts int
	RetryBatchSize   int
}

// Enabled reports whether bills are synced to QuickBooks
func (c QuickBooksConfig) Enabled() bool {
	return c.SyncURL != ""
}

// BulkConfig tunes the bulk payment and bulk edit endpoints
type BulkConfig struct {
	ItemPause      time.Duration
	RequestsPerMin int
	Burst          int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		Auth0Domain:   getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience: getEnv("AUTH0_AUDIENCE", ""),
		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:           getEnv("ENV", "development"),
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
		},
		QuickBooks: QuickBooksConfig{
			SyncURL:       getEnv("QUICKBOOKS_SYNC_URL", ""),
			SyncToken:     getEnv("QUICKBOOKS_SYNC_TOKEN", ""),
			RetrySchedule: getEnv("SYNC_RETRY_SCHEDULE", "@every 15m"),
		},
	}

	var err error
	if cfg.S3.ReportURLExpiry, err = getDuration("S3_REPORT_URL_EXPIRY", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.QuickBooks.Timeout, err = getDuration("QUICKBOOKS_SYNC_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.QuickBooks.RequestsPerMin, err = getInt("QUICKBOOKS_SYNC_RATE_PER_MINUTE", 300); err != nil {
		return nil, err
	}
	if cfg.QuickBooks.RetryMaxAttempts, err = getInt("SYNC_RETRY_MAX_ATTEMPTS", 5); err != nil {
		return nil, err
	}
	if cfg.QuickBooks.RetryBatchSize, err = getInt("SYNC_RETRY_BATCH_SIZE", 50); err != nil {
		return nil, err
	}
	if cfg.Bulk.ItemPause, err = getDuration("BULK_EDIT_ITEM_PAUSE", 0); err != nil {
		return nil, err
	}
	if cfg.Bulk.RequestsPerMin, err = getInt("BULK_RATE_PER_MINUTE", 20); err != nil {
		return nil, err
	}
	if cfg.Bulk.Burst, err = getInt("BULK_RATE_BURST", 5); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Auth0Domain == "" {
		return fmt.Errorf("AUTH0_DOMAIN is required")
	}
	if c.Auth0Audience == "" {
		return fmt.Errorf("AUTH0_AUDIENCE is required")
	}
	if c.QuickBooks.Enabled() && c.QuickBooks.SyncToken == "" {
		return fmt.Errorf("QUICKBOOKS_SYNC_TOKEN is required when QUICKBOOKS_SYNC_URL is set")
	}
	if c.QuickBooks.RequestsPerMin <= 0 {
		return fmt.Errorf("QUICKBOOKS_SYNC_RATE_PER_MINUTE must be positive")
	}
	if c.Bulk.RequestsPerMin <= 0 || c.Bulk.Burst <= 0 {
		return fmt.Errorf("BULK_RATE_PER_MINUTE and BULK_RATE_BURST must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
