package config

import (
	"fmt"
	"strings"
)

// LoggerConfig configures structured logging.
type LoggerConfig struct {
	Level       string
	Format      string
	File        string
	ServiceName string
	MaxSizeMB   int
	MaxBackups  int
	MaxAgeDays  int
	Compress    bool
}

// LoadLoggerConfig loads logging settings from environment variables
func LoadLoggerConfig(getenv func(string) string) (LoggerConfig, error) {
	config := LoggerConfig{
		Level:       strings.ToLower(getenv("LOG_LEVEL")),
		Format:      strings.ToLower(getenv("LOG_FORMAT")),
		File:        getenv("LOG_FILE"),
		ServiceName: "storefront-e2e",
		MaxSizeMB:   10,
		MaxBackups:  3,
		MaxAgeDays:  7,
		Compress:    true,
	}
	if config.Level == "" {
		config.Level = "info"
	}
	if config.Format == "" {
		config.Format = "console"
	}
	if config.Format != "console" && config.Format != "json" {
		return LoggerConfig{}, fmt.Errorf("LOG_FORMAT must be console or json, got %q", config.Format)
	}
	return config, nil
}
