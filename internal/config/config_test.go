package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MERIDIAN_DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, "https://query1.finance.yahoo.com", cfg.EquityAPIURL)
	assert.Equal(t, "https://api.coingecko.com", cfg.CryptoAPIURL)
	assert.Equal(t, 200*time.Millisecond, cfg.EquityMinInterval)
	assert.Equal(t, 1200*time.Millisecond, cfg.CryptoMinInterval)
	assert.Equal(t, 5, cfg.EquityBatchSize)
	assert.Equal(t, 7, cfg.DateToleranceDays)
	assert.InDelta(t, 0.02, cfg.RiskFreeRate, 1e-12)
	assert.InDelta(t, 10000.0, cfg.DefaultNotional, 1e-12)
	assert.False(t, cfg.Backup.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MERIDIAN_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("DATE_TOLERANCE_DAYS", "3")
	t.Setenv("RISK_FREE_RATE", "0.05")
	t.Setenv("CRYPTO_MIN_INTERVAL_MS", "2000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 3, cfg.DateToleranceDays)
	assert.InDelta(t, 0.05, cfg.RiskFreeRate, 1e-12)
	assert.Equal(t, 2*time.Second, cfg.CryptoMinInterval)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Port = 0 }, true},
		{"empty equity URL", func(c *Config) { c.EquityAPIURL = "" }, true},
		{"empty crypto URL", func(c *Config) { c.CryptoAPIURL = "" }, true},
		{"negative tolerance", func(c *Config) { c.DateToleranceDays = -1 }, true},
		{"zero batch size", func(c *Config) { c.EquityBatchSize = 0 }, true},
		{"zero notional", func(c *Config) { c.DefaultNotional = 0 }, true},
		{"backup without bucket", func(c *Config) {
			c.Backup = &BackupConfig{Enabled: true}
		}, true},
		{"backup without credentials", func(c *Config) {
			c.Backup = &BackupConfig{Enabled: true, Bucket: "b"}
		}, true},
		{"backup fully configured", func(c *Config) {
			c.Backup = &BackupConfig{Enabled: true, Bucket: "b", AccessKeyID: "k", SecretAccessKey: "s"}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:              8080,
				EquityAPIURL:      "http://equity.test",
				CryptoAPIURL:      "http://crypto.test",
				DateToleranceDays: 7,
				EquityBatchSize:   5,
				DefaultNotional:   10000,
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
