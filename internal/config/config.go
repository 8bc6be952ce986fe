package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	pkgRetry "github.com/futig/cbam-wizard/internal/pkg/retry"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr      string        `env:"SERVER_ADDR,notEmpty"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	// Storage configuration
	StorageCfg StorageConfig

	// CBAM backend connector
	CBAMConnectorCfg CBAMConnectorConfig `envPrefix:"CBAM_"`

	// Wizard behaviour
	WizardCfg WizardConfig `envPrefix:"WIZARD_"`

	// Report rendering
	ReportsCfg ReportsConfig `envPrefix:"REPORTS_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Product categories (loaded from JSON file)
	Categories []string

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" envDefault:"postgres"`

	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

// WizardConfig holds the URL layout and cache lifetimes of the wizard
type WizardConfig struct {
	BasePath      string        `env:"BASE_PATH" envDefault:"/new-calculation"`
	DashboardPath string        `env:"DASHBOARD_PATH" envDefault:"/dashboard"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CatalogTTL    time.Duration `env:"CATALOG_TTL" envDefault:"5m"`
	FactorTTL     time.Duration `env:"FACTOR_TTL" envDefault:"1h"`
}

// ReportsConfig holds the settings of downloadable reports.
// DOCX reports are only offered when a unioffice metered key is set.
type ReportsConfig struct {
	UniofficeLicenseKey string `env:"UNIOFFICE_LICENSE_KEY"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string        `env:"BOT_TOKEN"`
	BackendToken       string        `env:"BACKEND_TOKEN"`
	UpdateTimeout      int           `env:"UPDATE_TIMEOUT" envDefault:"60"`
	MaxConcurrentUsers int           `env:"MAX_CONCURRENT_USERS" envDefault:"100"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	RateLimitBurst     int           `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ChatTTL            time.Duration `env:"CHAT_TTL" envDefault:"24h"`
	ShutdownTimeout    int           `env:"SHUTDOWN_TIMEOUT" envDefault:"10"` // seconds
}

// CBAMConnectorConfig describes the REST backend that owns questions, answers and calculations.
// Endpoints containing {id} are expanded with the calculation or question id.
type CBAMConnectorConfig struct {
	HTTPClientConfig
	QuestionsEndpoint         string               `env:"QUESTIONS_ENDPOINT" envDefault:"/api/questions"`
	OptionsEndpoint           string               `env:"OPTIONS_ENDPOINT" envDefault:"/api/questions/{id}/options"`
	AnswersEndpoint           string               `env:"ANSWERS_ENDPOINT" envDefault:"/api/calculations/{id}/answers"`
	AnswersBulkDeleteEndpoint string               `env:"ANSWERS_BULK_DELETE_ENDPOINT" envDefault:"/api/calculations/{id}/answers/bulk-delete"`
	CalculationEndpoint       string               `env:"CALCULATION_ENDPOINT" envDefault:"/api/calculations/{id}"`
	ResultEndpoint            string               `env:"RESULT_ENDPOINT" envDefault:"/api/calculations/{id}/result"`
	EmissionFactorsEndpoint   string               `env:"EMISSION_FACTORS_ENDPOINT" envDefault:"/api/emission-factors"`
	Retry                     pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"15s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"5s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"10s"`
	MaxIdleConnsPerHost   int           `env:"MAX_IDLE_CONNS_PER_HOST" envDefault:"10"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL,notEmpty"`
}

// categoriesFile represents the structure of categories.json
type categoriesFile struct {
	Categories []string `json:"categories"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	return Load(*envFlag)
}

// Load reads the configuration of the given environment without touching command line flags
func Load(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Load product categories from JSON file
	if err := loadCategories(cfg); err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	switch cfg.StorageCfg.Driver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if cfg.StorageCfg.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required for the postgres storage driver")
		}
		if cfg.StorageCfg.DBMaxConns < 1 || cfg.StorageCfg.DBMaxConns > 200 {
			errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.StorageCfg.DBMaxConns))
		}
		if cfg.StorageCfg.DBMinConns < 0 || cfg.StorageCfg.DBMinConns > cfg.StorageCfg.DBMaxConns {
			errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.StorageCfg.DBMaxConns, cfg.StorageCfg.DBMinConns))
		}
	default:
		errors = append(errors, fmt.Sprintf("STORAGE_DRIVER must be %q or %q, got %q", StorageDriverPostgres, StorageDriverMemory, cfg.StorageCfg.Driver))
	}

	if !strings.HasPrefix(cfg.WizardCfg.BasePath, "/") {
		errors = append(errors, fmt.Sprintf("WIZARD_BASE_PATH must start with /, got %q", cfg.WizardCfg.BasePath))
	}

	if cfg.WizardCfg.CatalogTTL < 0 || cfg.WizardCfg.CatalogTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("WIZARD_CATALOG_TTL must be between 0 and 24h, got %s", cfg.WizardCfg.CatalogTTL))
	}

	if cfg.WizardCfg.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("WIZARD_SESSION_TTL must be at least 1m, got %s", cfg.WizardCfg.SessionTTL))
	}

	if cfg.CBAMConnectorCfg.Retry.Attempts < 1 || cfg.CBAMConnectorCfg.Retry.Attempts > 10 {
		errors = append(errors, fmt.Sprintf("CBAM_RETRY_ATTEMPTS must be between 1 and 10, got %d", cfg.CBAMConnectorCfg.Retry.Attempts))
	}

	// Validate Telegram configuration
	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}

	if cfg.TelegramCfg.RateLimitBurst < 1 || cfg.TelegramCfg.RateLimitBurst > 20 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", cfg.TelegramCfg.RateLimitBurst))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

var defaultCategories = []string{
	"Aluminium",
	"Iron and Steel",
	"Cement",
	"Fertilisers",
	"Hydrogen",
	"Electricity",
}

func loadCategories(cfg *Config) error {
	path := filepath.Join("internal", "config", "categories.json")

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("Warning: categories file not found at %s, using default categories\n", path)
		cfg.Categories = defaultCategories
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read categories file: %w", err)
	}

	if len(data) == 0 {
		return fmt.Errorf("categories file is empty: %s", path)
	}

	var file categoriesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse categories JSON: %w", err)
	}

	if len(file.Categories) == 0 {
		return fmt.Errorf("categories file contains no categories: %s", path)
	}

	cfg.Categories = file.Categories

	fmt.Printf("Loaded %d categories from %s\n", len(cfg.Categories), path)
	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
