package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken       string
	TelegramPollTimeout time.Duration
	TelegramSendTimeout time.Duration
	TelegramRatePerSec  int

	StorageDriver string // postgres | sqlite
	DatabaseURL   string // postgres only
	SQLitePath    string // sqlite only

	LogLevel    string
	Environment string

	Location            *time.Location // user input and delivery ticks are interpreted here
	CronSpecDelivery    string
	DeliveryTickTimeout time.Duration
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.StorageDriver = strings.ToLower(getenv("STORAGE_DRIVER", StorageDriverPostgres))
	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is not set")
		}
	case StorageDriverSQLite, "sqlite3":
		cfg.StorageDriver = StorageDriverSQLite
		cfg.SQLitePath = getenv("SQLITE_PATH", "data/reminders.db")
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q: expected postgres or sqlite", cfg.StorageDriver)
	}

	cfg.LogLevel = strings.ToLower(getenv("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(getenv("ENVIRONMENT", "development"))

	cfg.Location, err = time.LoadLocation(getenv("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg.CronSpecDelivery = getenv("CRON_SPEC_DELIVERY", "* * * * *") // Default: every minute, at second 0

	if cfg.DeliveryTickTimeout, err = durationEnv("DELIVERY_TICK_TIMEOUT", 50*time.Second); err != nil {
		return nil, err
	}
	if cfg.TelegramPollTimeout, err = durationEnv("TELEGRAM_POLL_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.TelegramSendTimeout, err = durationEnv("TELEGRAM_SEND_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	rateStr := getenv("TELEGRAM_RATE_PER_SEC", "25") // Telegram allows ~30 messages per second per bot
	cfg.TelegramRatePerSec, err = strconv.Atoi(rateStr)
	if err != nil || cfg.TelegramRatePerSec <= 0 {
		return nil, fmt.Errorf("invalid TELEGRAM_RATE_PER_SEC %q: must be a positive integer", rateStr)
	}

	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
