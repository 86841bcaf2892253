// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for the cache database (always absolute)
	Port     int
	DevMode  bool
	LogLevel string

	// Upstream providers
	EquityAPIURL string // Equity/index chart API base URL
	CryptoAPIURL string // Crypto market chart API base URL

	// Throttling. The crypto provider's rate limit is materially tighter
	// than the equity provider's, hence the larger interval.
	EquityMinInterval time.Duration
	CryptoMinInterval time.Duration
	EquityBatchSize   int
	EquityBatchPause  time.Duration

	// Comparison engine tuning
	DateToleranceDays int     // Nearest-date match window for cross-series alignment
	RiskFreeRate      float64 // Annual, as a decimal (0.02 = 2%)
	DefaultNotional   float64 // Fixed-notional mode fallback amount

	Backup *BackupConfig
}

// BackupConfig holds cache database backup configuration. Backups go to
// S3-compatible object storage and are disabled unless a bucket is set.
type BackupConfig struct {
	Enabled         bool
	Endpoint        string // Custom endpoint for S3-compatible stores (R2, MinIO)
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	RetentionDays   int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory:
	// 1. MERIDIAN_DATA_DIR environment variable
	// 2. Default to ./data
	// Always resolved to an absolute path, created when missing.
	dataDir := getEnv("MERIDIAN_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:  absDataDir,
		Port:     getEnvAsInt("PORT", 8080),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		EquityAPIURL: getEnv("EQUITY_API_URL", "https://query1.finance.yahoo.com"),
		CryptoAPIURL: getEnv("CRYPTO_API_URL", "https://api.coingecko.com"),

		EquityMinInterval: time.Duration(getEnvAsInt("EQUITY_MIN_INTERVAL_MS", 200)) * time.Millisecond,
		CryptoMinInterval: time.Duration(getEnvAsInt("CRYPTO_MIN_INTERVAL_MS", 1200)) * time.Millisecond,
		EquityBatchSize:   getEnvAsInt("EQUITY_BATCH_SIZE", 5),
		EquityBatchPause:  time.Duration(getEnvAsInt("EQUITY_BATCH_PAUSE_MS", 250)) * time.Millisecond,

		DateToleranceDays: getEnvAsInt("DATE_TOLERANCE_DAYS", 7),
		RiskFreeRate:      getEnvAsFloat("RISK_FREE_RATE", 0.02),
		DefaultNotional:   getEnvAsFloat("DEFAULT_NOTIONAL", 10000),

		Backup: loadBackupConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.EquityAPIURL == "" {
		return fmt.Errorf("equity API URL cannot be empty")
	}
	if c.CryptoAPIURL == "" {
		return fmt.Errorf("crypto API URL cannot be empty")
	}
	if c.DateToleranceDays < 0 {
		return fmt.Errorf("date tolerance cannot be negative: %d", c.DateToleranceDays)
	}
	if c.EquityBatchSize < 1 {
		return fmt.Errorf("equity batch size must be at least 1: %d", c.EquityBatchSize)
	}
	if c.DefaultNotional <= 0 {
		return fmt.Errorf("default notional must be positive: %f", c.DefaultNotional)
	}
	if c.Backup != nil && c.Backup.Enabled {
		if c.Backup.Bucket == "" {
			return fmt.Errorf("backup enabled but no bucket configured")
		}
		if c.Backup.AccessKeyID == "" || c.Backup.SecretAccessKey == "" {
			return fmt.Errorf("backup enabled but credentials missing")
		}
	}
	return nil
}

// loadBackupConfig loads backup configuration. Backups are opt-in: enabled
// only when BACKUP_ENABLED is set and a bucket is configured.
func loadBackupConfig() *BackupConfig {
	return &BackupConfig{
		Enabled:         getEnvAsBool("BACKUP_ENABLED", false),
		Endpoint:        getEnv("BACKUP_S3_ENDPOINT", ""),
		Region:          getEnv("BACKUP_S3_REGION", "auto"),
		Bucket:          getEnv("BACKUP_S3_BUCKET", ""),
		AccessKeyID:     getEnv("BACKUP_S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("BACKUP_S3_SECRET_ACCESS_KEY", ""),
		RetentionDays:   getEnvAsInt("BACKUP_RETENTION_DAYS", 30),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
