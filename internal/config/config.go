package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend API
	APIBaseURL string
	APITimeout time.Duration

	// Sessions
	SessionDBPath string
	SessionTTL    time.Duration

	// Caching
	CacheTTL     time.Duration
	CacheSize    int
	RefCacheSize int
	RefCacheTTL  time.Duration

	// Transaction table
	PageSize      int
	BaseRowHeight int
	SubLineHeight int
	LoadThreshold int

	// Proxying
	TrustedProxies []string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8000"),
		APITimeout: getEnvDuration("API_TIMEOUT", 30*time.Second),

		SessionDBPath: getEnv("SESSION_DB_PATH", "./data/sessions.db"),
		SessionTTL:    getEnvDuration("SESSION_TTL", 30*24*time.Hour),

		CacheTTL:     getEnvDuration("CACHE_TTL", 2*time.Minute),
		CacheSize:    getEnvInt("CACHE_SIZE", 100),
		RefCacheSize: getEnvInt("REF_CACHE_SIZE", 50),
		RefCacheTTL:  getEnvDuration("REF_CACHE_TTL", 5*time.Minute),

		PageSize:      getEnvInt("PAGE_SIZE", 100),
		BaseRowHeight: getEnvInt("BASE_ROW_HEIGHT", 48),
		SubLineHeight: getEnvInt("SUB_LINE_HEIGHT", 20),
		LoadThreshold: getEnvInt("LOAD_THRESHOLD", 10),

		TrustedProxies: getEnvList("TRUSTED_PROXIES"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate backend API URL
	if c.APIBaseURL == "" {
		errors = append(errors, "API base URL cannot be empty")
	} else if parsedURL, err := url.Parse(c.APIBaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid API base URL '%s': %v", c.APIBaseURL, err))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid API base URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
	}

	if c.APITimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid API timeout %v: must be at least 1 second", c.APITimeout))
	} else if c.APITimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid API timeout %v: must be at most 5 minutes", c.APITimeout))
	}

	// Validate session store configuration
	// The store creates a missing directory itself; validation only rejects
	// a parent that exists but is not a directory.
	if c.SessionDBPath == "" {
		errors = append(errors, "session database path cannot be empty")
	} else if dir := filepath.Dir(c.SessionDBPath); dir != "." && dir != "" {
		if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			errors = append(errors, fmt.Sprintf("session database directory '%s' is not a directory", dir))
		}
	}
	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}

	// Validate cache configuration
	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}
	if c.RefCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid reference cache size %d: must be at least 1", c.RefCacheSize))
	}
	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}
	if c.RefCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid reference cache TTL %v: must be at least 1 second", c.RefCacheTTL))
	}

	// Validate transaction table configuration
	if c.PageSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid page size %d: must be at least 1", c.PageSize))
	} else if c.PageSize > 500 {
		errors = append(errors, fmt.Sprintf("invalid page size %d: must be at most 500", c.PageSize))
	}
	if c.BaseRowHeight < 1 {
		errors = append(errors, fmt.Sprintf("invalid base row height %d: must be positive", c.BaseRowHeight))
	}
	if c.SubLineHeight < 0 {
		errors = append(errors, fmt.Sprintf("invalid sub-line height %d: must not be negative", c.SubLineHeight))
	}
	if c.LoadThreshold < 0 {
		errors = append(errors, fmt.Sprintf("invalid load threshold %d: must not be negative", c.LoadThreshold))
	}

	// Validate trusted proxy ranges
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			errors = append(errors, fmt.Sprintf("invalid trusted proxy CIDR '%s'", cidr))
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
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

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
