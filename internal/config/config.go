package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Sync      SyncConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// SyncConfig configures the remote state endpoint and the push debounce.
type SyncConfig struct {
	// Endpoint is the spreadsheet-backed web endpoint serving GET state reads
	// and POST action envelopes.
	Endpoint string
	// DebounceDelay is how long after the last mutation the persist/push
	// cycle runs; rapid edits within the window coalesce into one write.
	DebounceDelay time.Duration
}

// MongoDBConfig holds settings for the durable local state store.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig configures the optional bookkeeping ledger export. Both fields
// empty disables the export.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// SchedulerConfig holds cron schedules for the periodic jobs.
type SchedulerConfig struct {
	PullSchedule   string
	LedgerSchedule string
	Timezone       string
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
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	debounceMs, err := getenvInt("SYNC_DEBOUNCE_MS", 3000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Sync: SyncConfig{
			Endpoint:      os.Getenv("SHEETDB_ENDPOINT"),
			DebounceDelay: time.Duration(debounceMs) * time.Millisecond,
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "docelar"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_LEDGER_ID"),
		},
		Scheduler: SchedulerConfig{
			PullSchedule:   getenvWithDefault("PULL_CRON_SCHEDULE", "*/5 * * * *"),
			LedgerSchedule: getenvWithDefault("LEDGER_CRON_SCHEDULE", "0 21 * * *"),
			Timezone:       getenvWithDefault("TIMEZONE", "America/Sao_Paulo"),
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

	if c.Sync.Endpoint == "" {
		return errors.New("SHEETDB_ENDPOINT must be provided")
	}

	if c.Sync.DebounceDelay <= 0 {
		return errors.New("SYNC_DEBOUNCE_MS must be positive")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	if c.Scheduler.PullSchedule == "" {
		return errors.New("PULL_CRON_SCHEDULE must be provided")
	}

	if c.Scheduler.LedgerSchedule == "" {
		return errors.New("LEDGER_CRON_SCHEDULE must be provided")
	}

	if c.Scheduler.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	// Sheets export is optional, but when one field is set the other must be.
	if (c.Sheets.SpreadsheetID == "") != (c.Sheets.CredentialsPath == "") {
		return errors.New("GOOGLE_SHEET_LEDGER_ID and GOOGLE_SHEETS_CREDENTIALS_PATH must be set together")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}
