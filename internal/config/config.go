// Package config loads process configuration from the environment, with
// optional .env file support.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process-level configuration. Therapy settings live in the
// persisted state snapshot, not here.
type Config struct {
	MonitorURL string
	APISecret  string
	APIToken   string
	UseToken   bool

	ListenAddr string
	DataDir    string

	PollInterval      time.Duration
	RecomputeInterval time.Duration
	HistoryDays       int

	ReminderHour   int
	ReminderMinute int
	AlertRepeat    time.Duration

	LogLevel string
}

// Load reads configuration from a .env file (if present) and the
// environment.
func Load() (*Config, error) {
	// Missing .env is fine; the environment alone is a valid source.
	_ = godotenv.Load()

	dataDir, err := defaultDataDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		MonitorURL: os.Getenv("MONITOR_URL"),
		APISecret:  os.Getenv("MONITOR_API_SECRET"),
		APIToken:   os.Getenv("MONITOR_API_TOKEN"),
		UseToken:   os.Getenv("MONITOR_API_TOKEN") != "",

		ListenAddr: getEnvOrDefault("LISTEN_ADDR", "127.0.0.1:8723"),
		DataDir:    getEnvOrDefault("DATA_DIR", dataDir),

		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}

	if cfg.PollInterval, err = getEnvDuration("POLL_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RecomputeInterval, err = getEnvDuration("RECOMPUTE_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.AlertRepeat, err = getEnvDuration("ALERT_REPEAT", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.HistoryDays, err = getEnvInt("HISTORY_DAYS", 21); err != nil {
		return nil, err
	}
	if cfg.ReminderHour, cfg.ReminderMinute, err = parseClock(getEnvOrDefault("REMINDER_TIME", "19:45")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsMonitorConfigured reports whether an external monitor URL is set.
func (c *Config) IsMonitorConfigured() bool {
	return c.MonitorURL != ""
}

// SnapshotPath is the location of the state snapshot file.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.DataDir, "state.json")
}

// HistoryPath is the location of the glucose history cache.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

func defaultDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(base, "diabefit"), nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

// parseClock parses "HH:MM".
func parseClock(value string) (hour, minute int, err error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock time %q", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid clock time %q", value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid clock time %q", value)
	}
	return hour, minute, nil
}
