package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const prodString = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string
	DBDSN        string
	JWTSecret    string

	// Base URLs for the external meeting and notification providers.
	// Empty values disable the corresponding integration.
	MeetingProviderURL  string
	NotifyWebhookURL    string
	ReminderPollEvery   time.Duration
	ShutdownGracePeriod time.Duration
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")
	cfg.IsProduction = getEnv("APP_ENV", "dev") == prodString
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	// JWT secret is required for verifying owner tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	cfg.MeetingProviderURL = getEnv("MEETING_PROVIDER_URL", "")
	cfg.NotifyWebhookURL = getEnv("NOTIFY_WEBHOOK_URL", "")

	var err error
	cfg.ReminderPollEvery, err = getEnvAsDuration("REMINDER_POLL_EVERY", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.ShutdownGracePeriod, err = getEnvAsDuration("SHUTDOWN_GRACE_PERIOD", 5*time.Second)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a time.Duration
// (e.g. "30s", "1m"). It returns the default value if the variable is not set.
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid duration: %w", key, valStr, err)
	}

	return val, nil
}
