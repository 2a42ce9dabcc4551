package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"ENV", "LOG_LEVEL", "COURSE_DATA_DIRS", "SERVER_PORT",
	"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT",
	"CORS_ALLOWED_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"DETAIL_CACHE_SIZE", "SEARCH_MAX_RESULTS",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		prev, had := os.LookupEnv(key)
		require.NoError(t, os.Unsetenv(key))
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(key, prev)
			} else {
				_ = os.Unsetenv(key)
			}
		})
	}
}

func noEnvFile(t *testing.T) string {
	return "-env-file=" + filepath.Join(t.TempDir(), "missing.env")
}

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Catalog: CatalogConfig{Dirs: []string{"/data/courses"}},
		Server:  ServerConfig{Port: "8080"},
		Limits:  LimitsConfig{RateLimitRPS: 20, RateLimitBurst: 40, DetailCacheSize: 512, SearchMaxResults: 25},
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load([]string{noEnvFile(t)})
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, []string{filepath.Join(wd, "courseData")}, cfg.Catalog.Dirs)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.InDelta(t, 20.0, cfg.Limits.RateLimitRPS, 0.0001)
	assert.Equal(t, 40, cfg.Limits.RateLimitBurst)
	assert.Equal(t, 512, cfg.Limits.DetailCacheSize)
	assert.Equal(t, 25, cfg.Limits.SearchMaxResults)
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"LOG_LEVEL=debug\nSERVER_PORT=7000\nDETAIL_CACHE_SIZE=8\n",
	), 0o600))

	t.Setenv("SERVER_PORT", "9000")

	cfg, err := Load([]string{"-env-file=" + envFile, "-detail-cache-size=16"})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level, ".env fills unset variables")
	assert.Equal(t, "9000", cfg.Server.Port, "environment beats .env")
	assert.Equal(t, 16, cfg.Limits.DetailCacheSize, "flag beats .env")
}

func TestLoad_CourseDirs(t *testing.T) {
	clearEnv(t)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("COURSE_DATA_DIRS", " /srv/a , ~/catalogs ,, ")

	cfg, err := Load([]string{noEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, []string{"/srv/a", filepath.Join(home, "catalogs")}, cfg.Catalog.Dirs)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "bad duration", args: []string{"-read-timeout=soon"}},
		{name: "bad int", args: []string{"-rate-limit-burst=many"}},
		{name: "bad float", args: []string{"-rate-limit-rps=fast"}},
		{name: "bad environment", args: []string{"-env=test"}},
		{name: "negative cache", args: []string{"-detail-cache-size=-1"}},
		{name: "unknown flag", args: []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(append(tt.args, noEnvFile(t)))
			assert.Error(t, err)
		})
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			if tt.valid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			if tt.valid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestValidate_Limits(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{name: "rate limiting disabled", mutate: func(c *Config) { c.Limits.RateLimitRPS = 0; c.Limits.RateLimitBurst = 0 }, valid: true},
		{name: "cache disabled", mutate: func(c *Config) { c.Limits.DetailCacheSize = 0 }, valid: true},
		{name: "negative rps", mutate: func(c *Config) { c.Limits.RateLimitRPS = -1 }},
		{name: "zero burst with rps", mutate: func(c *Config) { c.Limits.RateLimitBurst = 0 }},
		{name: "zero search cap", mutate: func(c *Config) { c.Limits.SearchMaxResults = 0 }},
		{name: "no directories", mutate: func(c *Config) { c.Catalog.Dirs = nil }},
		{name: "empty port", mutate: func(c *Config) { c.Server.Port = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			if tt.valid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/x/../y")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "y"), got)

	got, err = expandPath("~")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(home), got)

	got, err = expandPath("/abs/path/")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a,,b , "))
	assert.Nil(t, splitList(""))
}
