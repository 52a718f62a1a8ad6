package app

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	DatabaseFile    string        // Path to the SQLite cache (default: ~/.grawsp/grawsp.db)
	CredentialsFile string        // Path to the AWS CLI credentials file (default: ~/.aws/credentials)
	DefaultRealm    string        // Realm used when --realm is not given
	DefaultRegion   string        // Region used when --region is not given
	StartURL        string        // SSO start URL registered for the default realm
	ClientName      string        // OAuth client name presented to the identity provider
	RetryAfter      time.Duration // Pause between device-token polls (default: 5s)
	Timeout         time.Duration // Wall-clock budget for device approval (default: 2m)
	SessionDuration time.Duration // Duration for chained role sessions (default: 1h)
	LogLevel        string        // Log level (debug, info, warn, error) (default: info)
	LogFormat       string        // Log format (text, json) (default: text)
}

func LoadConfig() Config {
	home, _ := os.UserHomeDir()

	return Config{
		DatabaseFile: getEnvOrDefault(
			"GRAWSP_DATABASE_FILE",
			filepath.Join(home, ".grawsp", "grawsp.db"),
		),
		CredentialsFile: getEnvOrDefault(
			"GRAWSP_CREDENTIALS_FILE",
			filepath.Join(home, ".aws", "credentials"),
		),
		DefaultRealm:    os.Getenv("GRAWSP_REALM"),
		DefaultRegion:   getEnvOrDefault("GRAWSP_REGION", "us-east-1"),
		StartURL:        os.Getenv("GRAWSP_START_URL"),
		ClientName:      getEnvOrDefault("GRAWSP_CLIENT_NAME", "grawsp"),
		RetryAfter:      getEnvDurationOrDefault("GRAWSP_RETRY_AFTER", 5*time.Second),
		Timeout:         getEnvDurationOrDefault("GRAWSP_TIMEOUT", 2*time.Minute),
		SessionDuration: getEnvDurationOrDefault("GRAWSP_SESSION_DURATION", 1*time.Hour),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer seconds (matching what the APIs speak)
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
