package config

import (
	"fmt"
	"os"
	"strconv"
)

// Digest schedule values.
const (
	ScheduleDaily  = "daily"
	ScheduleWeekly = "weekly"
	ScheduleOff    = "off"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Storage configuration
	DatabasePath string

	// API configuration
	FeedbackLimit int

	// Mock data seeding
	SeedMockData bool
	SeedRandom   int64 // 0 means time-based

	// Deployment catalog override (optional JSON file)
	DeploymentsFile string

	// Digest configuration
	DigestSchedule string // "daily", "weekly" or "off"

	// Notification configuration
	WebhookURL        string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		DatabasePath: getEnv("DATABASE_PATH", "feedback.db"),

		FeedbackLimit: getIntEnv("FEEDBACK_LIMIT", 200),

		SeedMockData: getBoolEnv("SEED_MOCK_DATA", true),
		SeedRandom:   getInt64Env("SEED_RANDOM_SEED", 0),

		DeploymentsFile: getEnv("DEPLOYMENTS_FILE", ""),

		DigestSchedule: getEnv("DIGEST_SCHEDULE", ScheduleOff),

		WebhookURL:        getEnv("WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DigestSchedule {
	case ScheduleDaily, ScheduleWeekly, ScheduleOff:
	default:
		return fmt.Errorf("DIGEST_SCHEDULE must be 'daily', 'weekly' or 'off'")
	}

	if c.DigestSchedule != ScheduleOff && c.WebhookURL == "" && c.NotificationEmail == "" {
		return fmt.Errorf("at least one notification method must be configured (WEBHOOK_URL or NOTIFICATION_EMAIL) when digests are enabled")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	if c.FeedbackLimit <= 0 {
		return fmt.Errorf("FEEDBACK_LIMIT must be positive")
	}

	return nil
}

// DigestEnabled reports whether scheduled digests are configured.
func (c *Config) DigestEnabled() bool {
	return c.DigestSchedule != ScheduleOff
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
