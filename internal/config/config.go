// Package config loads the server configuration from command-line flags,
// environment variables, a .env file and defaults, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Catalog CatalogConfig
	Server  ServerConfig
	Limits  LimitsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// CatalogConfig says where catalog documents are read from.
type CatalogConfig struct {
	// Dirs are absolute directories, read in order. A later file wins a slug conflict.
	Dirs []string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port               string        // default 8080
	ReadTimeout        time.Duration // default 15s
	WriteTimeout       time.Duration // default 15s
	IdleTimeout        time.Duration // default 60s
	CORSAllowedOrigins []string      // default *
}

// LimitsConfig bounds per-client and per-process work.
type LimitsConfig struct {
	RateLimitRPS     float64 // 0 disables rate limiting
	RateLimitBurst   int
	DetailCacheSize  int // 0 disables the detail cache
	SearchMaxResults int
}

// Load builds a Config from args (without the program name) and the process
// environment. Precedence:
// 1. Command-line flags.
// 2. Environment variables.
// 3. .env file (never overrides variables that are already set).
// 4. Defaults.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("prereqs-server", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	courseDirs := fs.String("course-dirs", "", "Comma-separated catalog directories (default: ./courseData)")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins (default: *)")

	rateRPS := fs.String("rate-limit-rps", "", "Requests per second per client, 0 disables (default: 20)")
	rateBurst := fs.String("rate-limit-burst", "", "Burst per client (default: 40)")
	cacheSize := fs.String("detail-cache-size", "", "Cached course detail views, 0 disables (default: 512)")
	searchMax := fs.String("search-max-results", "", "Full-text search result cap (default: 25)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// A missing .env file is fine.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %q: %w", *envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:               getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSAllowedOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ALLOWED_ORIGINS", "*")),
		},
	}

	var err error
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}

	if cfg.Limits.RateLimitRPS, err = getFloatConfigValue(*rateRPS, "RATE_LIMIT_RPS", 20); err != nil {
		return nil, err
	}
	if cfg.Limits.RateLimitBurst, err = getIntConfigValue(*rateBurst, "RATE_LIMIT_BURST", 40); err != nil {
		return nil, err
	}
	if cfg.Limits.DetailCacheSize, err = getIntConfigValue(*cacheSize, "DETAIL_CACHE_SIZE", 512); err != nil {
		return nil, err
	}
	if cfg.Limits.SearchMaxResults, err = getIntConfigValue(*searchMax, "SEARCH_MAX_RESULTS", 25); err != nil {
		return nil, err
	}

	for _, dir := range splitList(getConfigValue(*courseDirs, "COURSE_DATA_DIRS", "./courseData")) {
		expanded, err := expandPath(dir)
		if err != nil {
			return nil, fmt.Errorf("invalid course directory %q: %w", dir, err)
		}
		cfg.Catalog.Dirs = append(cfg.Catalog.Dirs, expanded)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %q (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if len(c.Catalog.Dirs) == 0 {
		return errors.New("at least one course directory is required")
	}

	if c.Server.Port == "" {
		return errors.New("server port cannot be empty")
	}

	if c.Limits.RateLimitRPS < 0 || c.Limits.RateLimitBurst < 0 {
		return errors.New("rate limit values cannot be negative")
	}
	if c.Limits.RateLimitRPS > 0 && c.Limits.RateLimitBurst == 0 {
		return errors.New("rate limit burst must be positive when rate limiting is enabled")
	}
	if c.Limits.DetailCacheSize < 0 {
		return errors.New("detail cache size cannot be negative")
	}
	if c.Limits.SearchMaxResults <= 0 {
		return errors.New("search max results must be positive")
	}

	return nil
}

// expandPath expands a leading ~ and makes the path absolute.
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, strings.TrimPrefix(path[1:], "/"))
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	raw := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, raw, err)
	}
	return d, nil
}

func getIntConfigValue(flagValue, envKey string, defaultValue int) (int, error) {
	raw := getConfigValue(flagValue, envKey, "")
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, raw, err)
	}
	return n, nil
}

func getFloatConfigValue(flagValue, envKey string, defaultValue float64) (float64, error) {
	raw := getConfigValue(flagValue, envKey, "")
	if raw == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, raw, err)
	}
	return f, nil
}
