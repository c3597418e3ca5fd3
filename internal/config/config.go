// Package config handles application configuration from environment variables.
package config

import "os"

// Config holds the application configuration.
type Config struct {
	DatabasePath string
	LogLevel     string
	ReferralCode string
}

// Load reads configuration from environment variables.
func Load() *Config {
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/mulebuy.db"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		DatabasePath: dbPath,
		LogLevel:     logLevel,
		ReferralCode: os.Getenv("REFERRAL_CODE"),
	}
}
