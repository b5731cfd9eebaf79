package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 7, cfg.Analysis.Days)
	assert.Equal(t, 28, cfg.Analysis.ExtendedDays)
	assert.Equal(t, 1095, cfg.Analysis.LookbackDays)
	assert.Equal(t, "power", cfg.Analysis.ZoneType)
	assert.False(t, cfg.Analysis.FetchStreams)
	assert.Equal(t, "warn", cfg.Log.Level)

	// Credentials are empty by default
	assert.Empty(t, cfg.Intervals.APIKey)
	assert.Empty(t, cfg.Intervals.AthleteID)
}

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Intervals.AthleteID = "i42"
	cfg.Intervals.APIKey = "secret"
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		errContains string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:   "oauth token instead of api key",
			mutate: func(c *Config) { c.Intervals.APIKey = ""; c.Intervals.AccessToken = "tok" },
		},
		{
			name:        "empty athlete id",
			mutate:      func(c *Config) { c.Intervals.AthleteID = "" },
			errContains: "athlete_id",
		},
		{
			name:        "placeholder athlete id",
			mutate:      func(c *Config) { c.Intervals.AthleteID = "YOUR_ATHLETE_ID" },
			errContains: "athlete_id",
		},
		{
			name:        "placeholder api key",
			mutate:      func(c *Config) { c.Intervals.APIKey = "YOUR_API_KEY" },
			errContains: "api_key",
		},
		{
			name:        "extended shorter than primary",
			mutate:      func(c *Config) { c.Analysis.ExtendedDays = 3 },
			errContains: "extended_days",
		},
		{
			name:        "non-positive days",
			mutate:      func(c *Config) { c.Analysis.Days = 0 },
			errContains: "analysis.days",
		},
		{
			name:        "unknown zone type",
			mutate:      func(c *Config) { c.Analysis.ZoneType = "pace" },
			errContains: "zone_type",
		},
		{
			name:        "unknown log level",
			mutate:      func(c *Config) { c.Log.Level = "loud" },
			errContains: "log.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	_, err := LoadFrom(path, envMap(nil))
	assert.ErrorIs(t, err, ErrNoConfig)

	cfg, err := LoadFrom(path, envMap(map[string]string{
		EnvAPIKey:    "env-key",
		EnvAthleteID: "i7",
	}))
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Intervals.APIKey)
	assert.Equal(t, "i7", cfg.Intervals.AthleteID)
	assert.Equal(t, 28, cfg.Analysis.ExtendedDays)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := validConfig()
	cfg.Analysis.Days = 14
	cfg.Analysis.ExtendedDays = 0
	require.NoError(t, SaveTo(path, &cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFrom(path, envMap(map[string]string{EnvLogLevel: "debug"}))
	require.NoError(t, err)
	assert.Equal(t, 14, loaded.Analysis.Days)
	assert.Equal(t, 28, loaded.Analysis.ExtendedDays, "zero values take defaults")
	assert.Equal(t, "debug", loaded.Log.Level)
	assert.Equal(t, "i42", loaded.Intervals.AthleteID)
}

func TestLoadFromInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := LoadFrom(path, envMap(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoggerLevel(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, log.WarnLevel, cfg.LoggerLevel())

	cfg.Log.Level = "DEBUG"
	assert.Equal(t, log.DebugLevel, cfg.LoggerLevel())

	cfg.Log.Level = "nonsense"
	assert.Equal(t, log.WarnLevel, cfg.LoggerLevel())
}
