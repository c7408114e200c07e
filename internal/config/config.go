package config

import (
	"fmt"
	"os"
	"path/filepath"

	"nestquote/internal/logger"
)

const (
	settingsFileName  = "settings.yaml"
	counterFileName   = "QuoteNumber.txt"
	customersFileName = "customers.yaml"
)

type Config struct {
	// DataDir is the per-user application-data directory holding settings,
	// the quote-number counter and the customer directory.
	DataDir string

	// LegacyDir is the directory older releases stored the same files in
	// (next to the executable). Files found there are copied once.
	LegacyDir string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		DataDir:       getEnv("NESTQUOTE_DATA_DIR", defaultDataDir()),
		LegacyDir:     getEnv("NESTQUOTE_LEGACY_DIR", defaultLegacyDir()),
		LogLevel:      getEnv("LOG_LEVEL", "warn"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:     getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("NESTQUOTE_DATA_DIR could not be determined; set it explicitly")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// SettingsPath is the settings file inside DataDir.
func (c *Config) SettingsPath() string { return filepath.Join(c.DataDir, settingsFileName) }

// LegacySettingsPath is the pre-migration settings file, or "" without a legacy dir.
func (c *Config) LegacySettingsPath() string { return c.legacy(settingsFileName) }

// CounterPath is the quote-number counter file inside DataDir.
func (c *Config) CounterPath() string { return filepath.Join(c.DataDir, counterFileName) }

// LegacyCounterPath is the pre-migration counter file, or "" without a legacy dir.
func (c *Config) LegacyCounterPath() string { return c.legacy(counterFileName) }

// CustomersPath is the customer directory file inside DataDir.
func (c *Config) CustomersPath() string { return filepath.Join(c.DataDir, customersFileName) }

// LegacyCustomersPath is the pre-migration customer file, or "" without a legacy dir.
func (c *Config) LegacyCustomersPath() string { return c.legacy(customersFileName) }

func (c *Config) legacy(name string) string {
	if c.LegacyDir == "" {
		return ""
	}
	return filepath.Join(c.LegacyDir, name)
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "DiamondFAB", "Quote")
}

func defaultLegacyDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
