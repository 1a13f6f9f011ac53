package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Backend names accepted by BACKEND.
const (
	BackendMemory  = "memory"
	BackendMongoDB = "mongodb"
	BackendSheets  = "sheets"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Backend   string
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	Session   SessionConfig
	Display   DisplayConfig
	Notify    NotifyConfig
	Cache     CacheConfig
	Reconcile ReconcileConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	AssetRange      string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// SessionConfig locates the session store.
type SessionConfig struct {
	DBPath string
}

// DisplayConfig controls currency rendering.
type DisplayConfig struct {
	CurrencySymbol       string
	Locale               string
	TenMillionLabel      string
	HundredThousandLabel string
	ThousandLabel        string
}

// NotifyConfig points at an optional notification webhook.
type NotifyConfig struct {
	WebhookURL   string
	WebhookToken string
}

// CacheConfig sizes the view cache.
type CacheConfig struct {
	ViewCacheSize int
}

// ReconcileConfig holds the discrepancy tolerance.
type ReconcileConfig struct {
	Tolerance decimal.Decimal
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// A missing .env is fine when the environment is set directly.
		_ = godotenv.Load()
	}

	cacheSize, err := strconv.Atoi(getenvWithDefault("VIEW_CACHE_SIZE", "256"))
	if err != nil {
		return nil, fmt.Errorf("VIEW_CACHE_SIZE: %w", err)
	}

	tolerance, err := decimal.NewFromString(getenvWithDefault("RECONCILE_TOLERANCE", "0"))
	if err != nil {
		return nil, fmt.Errorf("RECONCILE_TOLERANCE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Backend: getenvWithDefault("BACKEND", BackendMemory),
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "assetvista"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			AssetRange:      getenvWithDefault("GOOGLE_SHEET_ASSET_RANGE", "Assets!A:N"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 8 * * 1"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Kolkata"),
		},
		Session: SessionConfig{
			DBPath: getenvWithDefault("SESSION_DB_PATH", "assetvista.db"),
		},
		Display: DisplayConfig{
			CurrencySymbol:       getenvWithDefault("CURRENCY_SYMBOL", "₹"),
			Locale:               getenvWithDefault("CURRENCY_LOCALE", "en-IN"),
			TenMillionLabel:      getenvWithDefault("CURRENCY_TEN_MILLION_LABEL", "Cr"),
			HundredThousandLabel: getenvWithDefault("CURRENCY_HUNDRED_THOUSAND_LABEL", "L"),
			ThousandLabel:        getenvWithDefault("CURRENCY_THOUSAND_LABEL", "K"),
		},
		Notify: NotifyConfig{
			WebhookURL:   os.Getenv("NOTIFY_WEBHOOK_URL"),
			WebhookToken: os.Getenv("NOTIFY_WEBHOOK_TOKEN"),
		},
		Cache: CacheConfig{
			ViewCacheSize: cacheSize,
		},
		Reconcile: ReconcileConfig{
			Tolerance: tolerance,
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Backend {
	case BackendMemory:
	case BackendMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must be provided")
		}
	case BackendSheets:
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
		}
		if c.Sheets.AssetRange == "" {
			return errors.New("GOOGLE_SHEET_ASSET_RANGE must not be empty")
		}
	default:
		return fmt.Errorf("BACKEND must be one of %s, %s, %s; got %q", BackendMemory, BackendMongoDB, BackendSheets, c.Backend)
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.Session.DBPath == "" {
		return errors.New("SESSION_DB_PATH must be provided")
	}

	if c.Reconcile.Tolerance.IsNegative() {
		return errors.New("RECONCILE_TOLERANCE must not be negative")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
