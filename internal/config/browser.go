package config

import (
	"fmt"
	"strconv"
	"time"
)

// BrowserConfig controls how browser sessions are launched.
type BrowserConfig struct {
	Browser        string
	Headless       bool
	SlowMo         time.Duration
	DefaultTimeout time.Duration
	CaptureDir     string
	Parallel       int
}

// LoadBrowserConfig loads browser settings from environment variables
func LoadBrowserConfig(getenv func(string) string) (BrowserConfig, error) {
	config := BrowserConfig{
		Browser:        getenv("BROWSER"),
		Headless:       true,
		DefaultTimeout: 30 * time.Second,
		CaptureDir:     getenv("CAPTURE_DIR"),
		Parallel:       1,
	}
	if config.Browser == "" {
		config.Browser = "chromium"
	}
	switch config.Browser {
	case "chromium", "firefox", "webkit":
	default:
		return BrowserConfig{}, fmt.Errorf("BROWSER must be chromium, firefox or webkit, got %q", config.Browser)
	}
	if config.CaptureDir == "" {
		config.CaptureDir = "screenshots"
	}

	if v := getenv("HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return BrowserConfig{}, fmt.Errorf("HEADLESS: %w", err)
		}
		config.Headless = headless
	}
	if v := getenv("SLOW_MO_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return BrowserConfig{}, fmt.Errorf("SLOW_MO_MS must be a non-negative integer, got %q", v)
		}
		config.SlowMo = time.Duration(n) * time.Millisecond
	}
	if v := getenv("DEFAULT_TIMEOUT_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return BrowserConfig{}, fmt.Errorf("DEFAULT_TIMEOUT_MS must be a positive integer, got %q", v)
		}
		config.DefaultTimeout = time.Duration(n) * time.Millisecond
	}
	if v := getenv("PARALLEL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return BrowserConfig{}, fmt.Errorf("PARALLEL must be a positive integer, got %q", v)
		}
		config.Parallel = n
	}

	return config, nil
}
