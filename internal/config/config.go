package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Config represents the application configuration
type Config struct {
	Intervals IntervalsConfig `json:"intervals"`
	Analysis  AnalysisConfig  `json:"analysis"`
	Log       LogConfig       `json:"log"`
	Metrics   MetricsConfig   `json:"metrics"`
}

// IntervalsConfig holds intervals.icu credentials. Either an API key or an
// OAuth access token authenticates requests.
type IntervalsConfig struct {
	AthleteID    string    `json:"athlete_id"`
	APIKey       string    `json:"api_key,omitempty"`
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenExpiry  time.Time `json:"token_expiry,omitempty"`
	ClientID     string    `json:"client_id,omitempty"`
	ClientSecret string    `json:"client_secret,omitempty"`
	BaseURL      string    `json:"base_url,omitempty"`
}

// AnalysisConfig holds the default windows of the documents
type AnalysisConfig struct {
	Days         int    `json:"days"`
	ExtendedDays int    `json:"extended_days"`
	LookbackDays int    `json:"lookback_days"`
	FetchStreams bool   `json:"fetch_streams"`
	ZoneType     string `json:"zone_type"`
}

// LogConfig holds logging preferences
type LogConfig struct {
	Level string `json:"level"`
}

// MetricsConfig holds the prometheus endpoint settings
type MetricsConfig struct {
	Addr string `json:"addr,omitempty"`
}

// Environment variables that override the file
const (
	EnvAPIKey    = "INTERVALS_API_KEY"
	EnvAthleteID = "INTERVALS_ATHLETE_ID"
	EnvBaseURL   = "INTERVALS_BASE_URL"
	EnvLogLevel  = "INTERVALS_LOG_LEVEL"
)

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Analysis: AnalysisConfig{
			Days:         7,
			ExtendedDays: 28,
			LookbackDays: 1095,
			ZoneType:     "power",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load reads the configuration from ~/.intervals-coach/config.json and
// applies environment overrides. A missing file is not an error when the
// environment alone supplies the credentials.
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path, os.Getenv)
}

// LoadFrom reads the configuration at path, looking up overrides with getenv
func LoadFrom(path string, getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if getenv(EnvAPIKey) == "" || getenv(EnvAthleteID) == "" {
			return nil, ErrNoConfig
		}
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv(getenv)
	return &cfg, nil
}

// applyDefaults fills values left empty in the file
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Analysis.Days == 0 {
		c.Analysis.Days = defaults.Analysis.Days
	}
	if c.Analysis.ExtendedDays == 0 {
		c.Analysis.ExtendedDays = defaults.Analysis.ExtendedDays
	}
	if c.Analysis.LookbackDays == 0 {
		c.Analysis.LookbackDays = defaults.Analysis.LookbackDays
	}
	if c.Analysis.ZoneType == "" {
		c.Analysis.ZoneType = defaults.Analysis.ZoneType
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvAPIKey); v != "" {
		c.Intervals.APIKey = v
	}
	if v := getenv(EnvAthleteID); v != "" {
		c.Intervals.AthleteID = v
	}
	if v := getenv(EnvBaseURL); v != "" {
		c.Intervals.BaseURL = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Save writes the configuration to ~/.intervals-coach/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes the configuration to path, creating its directory
func SaveTo(path string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists and returns
// its path
func CreateExample() (string, error) {
	path, err := getConfigPath()
	if err != nil {
		return "", err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return path, nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Intervals = IntervalsConfig{
		AthleteID: "YOUR_ATHLETE_ID",
		APIKey:    "YOUR_API_KEY",
	}

	return path, SaveTo(path, &example)
}

// Validate checks if the config has required fields
func (c *Config) Validate() error {
	if c.Intervals.AthleteID == "" || c.Intervals.AthleteID == "YOUR_ATHLETE_ID" {
		return errors.New("intervals.athlete_id is required - find it under Settings on https://intervals.icu")
	}
	if (c.Intervals.APIKey == "" || c.Intervals.APIKey == "YOUR_API_KEY") && c.Intervals.AccessToken == "" {
		return errors.New("intervals.api_key is required (or run login) - generate one under Settings > Developer on https://intervals.icu")
	}

	// Validate windows
	if c.Analysis.Days <= 0 {
		return fmt.Errorf("analysis.days must be positive, got %d", c.Analysis.Days)
	}
	if c.Analysis.ExtendedDays < c.Analysis.Days {
		return fmt.Errorf("analysis.extended_days (%d) must be at least analysis.days (%d)", c.Analysis.ExtendedDays, c.Analysis.Days)
	}
	if c.Analysis.LookbackDays <= 0 {
		return fmt.Errorf("analysis.lookback_days must be positive, got %d", c.Analysis.LookbackDays)
	}

	if z := c.Analysis.ZoneType; z != "" && z != "power" && z != "hr" {
		return fmt.Errorf("analysis.zone_type must be \"power\" or \"hr\", got %q", z)
	}

	if _, err := log.ParseLevel(strings.ToLower(c.Log.Level)); c.Log.Level != "" && err != nil {
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	return nil
}

// LoggerLevel returns the configured log level, warn when unset or invalid
func (c *Config) LoggerLevel() log.Level {
	level, err := log.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil || c.Log.Level == "" {
		return log.WarnLevel
	}
	return level
}

// HasOAuth reports whether an OAuth access token is stored
func (c *Config) HasOAuth() bool {
	return c.Intervals.AccessToken != ""
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".intervals-coach"), nil
}

// Path returns the path of the config file
func Path() (string, error) {
	return getConfigPath()
}
