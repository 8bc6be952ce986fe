package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgRetry "github.com/futig/cbam-wizard/internal/pkg/retry"
)

func validConfig() *Config {
	return &Config{
		ServerAddr: ":8080",
		StorageCfg: StorageConfig{Driver: StorageDriverMemory},
		CBAMConnectorCfg: CBAMConnectorConfig{
			Retry: pkgRetry.RetryConfig{Attempts: 3},
		},
		WizardCfg: WizardConfig{
			BasePath:   "/new-calculation",
			SessionTTL: time.Hour,
			CatalogTTL: time.Minute,
		},
		TelegramCfg: TelegramConfig{
			RateLimitPerMinute: 30,
			RateLimitBurst:     5,
			ShutdownTimeout:    10,
		},
	}
}

func TestValidateConfig(t *testing.T) {
	require.NoError(t, validateConfig(validConfig()))

	tests := []struct {
		name   string
		mutate func(*Config)
		substr string
	}{
		{"postgres needs url", func(c *Config) { c.StorageCfg.Driver = StorageDriverPostgres; c.StorageCfg.DBMaxConns = 5 }, "DATABASE_URL"},
		{"unknown driver", func(c *Config) { c.StorageCfg.Driver = "sqlite" }, "STORAGE_DRIVER"},
		{"relative base path", func(c *Config) { c.WizardCfg.BasePath = "wizard" }, "WIZARD_BASE_PATH"},
		{"no retries", func(c *Config) { c.CBAMConnectorCfg.Retry.Attempts = 0 }, "CBAM_RETRY_ATTEMPTS"},
		{"burst", func(c *Config) { c.TelegramCfg.RateLimitBurst = 50 }, "TELEGRAM_RATE_LIMIT_BURST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.substr)
		})
	}
}

func TestGetEnvFile(t *testing.T) {
	assert.Equal(t, ".env.prod", getEnvFile("production"))
	assert.Equal(t, ".env.local", getEnvFile("dev"))
	assert.Equal(t, ".env.staging", getEnvFile("staging"))
}

func TestParse_ReportsAndCORS(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":8080")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("CBAM_SERVICE_URL", "http://cbam.local")

	var cfg Config
	require.NoError(t, env.Parse(&cfg))
	assert.Empty(t, cfg.ReportsCfg.UniofficeLicenseKey)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)

	t.Setenv("REPORTS_UNIOFFICE_LICENSE_KEY", "metered-key")
	t.Setenv("CORS_ORIGINS", "https://app.example,https://admin.example")

	cfg = Config{}
	require.NoError(t, env.Parse(&cfg))
	assert.Equal(t, "metered-key", cfg.ReportsCfg.UniofficeLicenseKey)
	assert.Equal(t, []string{"https://app.example", "https://admin.example"}, cfg.CORSOrigins)
}
