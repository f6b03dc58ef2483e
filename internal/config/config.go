// Package config loads settings from the environment with sane defaults.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// Local storage
	SQLiteDBPath string

	// Remote wash backend
	WashAPIBaseURL string
	WashAPITimeout time.Duration

	// Backend selection: remote talks to the wash API, memory is the
	// in-process fake for development.
	Backend string

	// View cache
	CacheSize int
	CacheTTL  time.Duration

	LogLevel string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/washlog.db"),

		WashAPIBaseURL: getEnv("WASH_API_BASE_URL", "https://washcenter-backend.vercel.app"),
		WashAPITimeout: getEnvDuration("WASH_API_TIMEOUT", 10*time.Second),

		Backend: getEnv("WASH_BACKEND", "remote"),

		CacheSize: getEnvInt("CACHE_SIZE", 128),
		CacheTTL:  getEnvDuration("CACHE_TTL", 30*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and returns an error describing every
// problem found.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.Backend {
	case "remote", "memory":
	default:
		problems = append(problems, fmt.Sprintf("invalid backend '%s': must be one of [remote memory]", c.Backend))
	}

	if c.Backend == "remote" {
		if u, err := url.Parse(c.WashAPIBaseURL); err != nil || u.Host == "" {
			problems = append(problems, fmt.Sprintf("invalid wash API base URL '%s'", c.WashAPIBaseURL))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			problems = append(problems, fmt.Sprintf("invalid wash API URL scheme '%s': must be 'http' or 'https'", u.Scheme))
		}
	}

	if c.WashAPITimeout < time.Second || c.WashAPITimeout > time.Minute {
		problems = append(problems, fmt.Sprintf("invalid wash API timeout %v: must be between 1s and 1m", c.WashAPITimeout))
	}

	if c.SQLiteDBPath == "" {
		problems = append(problems, "SQLite database path cannot be empty")
	} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				problems = append(problems, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
			}
		}
	}

	if c.CacheSize < 1 {
		problems = append(problems, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}
	if c.CacheTTL < time.Second {
		problems = append(problems, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
