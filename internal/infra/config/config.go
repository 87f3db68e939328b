package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL string
	LogLevel    string
	Environment string
	HTTPAddr    string

	// TrustProxyHeaders enables X-Forwarded-For / X-Real-IP handling. Only set it behind a
	// proxy that overwrites those headers.
	TrustProxyHeaders bool

	// CronSecret is the shared secret external triggers must present. Empty disables the
	// HTTP trigger entirely.
	CronSecret string

	SendGridAPIKey   string
	SendGridHost     string
	EmailFromAddress string
	EmailFromName    string
	AppBaseURL       string

	SchedulerEnabled         bool
	CronSpecReminders        string
	CronSpecRateLimitCleanup string

	ReminderTolerance  time.Duration
	ReminderLookahead  time.Duration
	ReminderBatchSize  int
	ReminderBatchDelay time.Duration
	ReminderJobTimeout time.Duration

	TelegramToken   string
	AdminTelegramID int64

	RateLimitRequests int
	RateLimitWindow   time.Duration
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
}

// ChannelConfigured reports whether reminders can actually be delivered.
func (c *AppConfig) ChannelConfigured() bool {
	return c.SendGridAPIKey != ""
}

// TelegramEnabled reports whether the operator bot should be started.
func (c *AppConfig) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.AdminTelegramID != 0
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.LogLevel = strings.ToLower(getenv("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(getenv("ENVIRONMENT", "development"))
	cfg.HTTPAddr = getenv("HTTP_ADDR", ":8080")
	cfg.CronSecret = os.Getenv("CRON_SECRET")
	if cfg.TrustProxyHeaders, err = parseBool("TRUST_PROXY_HEADERS", false); err != nil {
		return nil, err
	}

	cfg.SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	cfg.SendGridHost = getenv("SENDGRID_HOST", "https://api.sendgrid.com")
	cfg.EmailFromAddress = getenv("EMAIL_FROM_ADDRESS", "noreply@permissionslips.app")
	cfg.EmailFromName = getenv("EMAIL_FROM_NAME", "Permission Slips")
	cfg.AppBaseURL = strings.TrimRight(getenv("APP_BASE_URL", "http://localhost:3000"), "/")

	if cfg.SchedulerEnabled, err = parseBool("SCHEDULER_ENABLED", true); err != nil {
		return nil, err
	}
	cfg.CronSpecReminders = getenv("CRON_SPEC_REMINDERS", "0 */2 * * *")                   // Every 2 hours
	cfg.CronSpecRateLimitCleanup = getenv("CRON_SPEC_RATE_LIMIT_CLEANUP", "*/5 * * * *") // Every 5 minutes

	if cfg.ReminderTolerance, err = parseDuration("REMINDER_TOLERANCE", 2*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ReminderTolerance == 0 {
		return nil, fmt.Errorf("invalid REMINDER_TOLERANCE: must be positive")
	}
	if cfg.ReminderLookahead, err = parseDuration("REMINDER_LOOKAHEAD", 8*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ReminderLookahead == 0 {
		return nil, fmt.Errorf("invalid REMINDER_LOOKAHEAD: must be positive")
	}
	if cfg.ReminderBatchSize, err = parseInt("REMINDER_BATCH_SIZE", 5); err != nil {
		return nil, err
	}
	if cfg.ReminderBatchSize <= 0 {
		return nil, fmt.Errorf("invalid REMINDER_BATCH_SIZE: must be positive, got %d", cfg.ReminderBatchSize)
	}
	if cfg.ReminderBatchDelay, err = parseDuration("REMINDER_BATCH_DELAY", 200*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.ReminderJobTimeout, err = parseDuration("REMINDER_JOB_TIMEOUT", 5*time.Minute); err != nil {
		return nil, err
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID"); adminIDStr != "" {
		cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}

	if cfg.RateLimitRequests, err = parseInt("RATE_LIMIT_REQUESTS", 10); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = parseDuration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if cfg.RedisDB, err = parseInt("REDIS_DB", 0); err != nil {
		return nil, err
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

func parseInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}

func parseBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
