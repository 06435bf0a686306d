package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"shareaudit/database"
	"shareaudit/domain/crawl"
	"shareaudit/logging"
)

// AppConfig holds application-wide system configuration.
// This is infrastructure configuration, not user crawl preferences.
type AppConfig struct {
	HTTPAddr     string
	GraphBaseURL string
	OutputPath   string
	Database     database.Config
	Logging      *logging.Config
	Crawl        *crawl.Parameters
}

// LoadAppConfigFromEnv loads complete application configuration from environment variables.
func LoadAppConfigFromEnv() *AppConfig {
	return &AppConfig{
		HTTPAddr:     getEnvWithDefault("HTTP_ADDR", ":8080"),
		GraphBaseURL: getEnvWithDefault("GRAPH_BASE_URL", "https://graph.microsoft.com/v1.0"),
		OutputPath:   getEnvWithDefault("OUTPUT_FILE", "shareaudit_report.html"),
		Database:     LoadDatabaseConfigFromEnv(),
		Logging:      LoadLoggingConfigFromEnv(),
		Crawl:        LoadCrawlParametersFromEnv(),
	}
}

// LoadDatabaseConfigFromEnv loads database configuration from environment variables.
func LoadDatabaseConfigFromEnv() database.Config {
	cfg := database.DefaultConfig()
	cfg.Path = getEnvWithDefault("DB_PATH", cfg.Path)
	cfg.MaxOpenConns = getEnvIntWithDefault("DB_MAX_OPEN_CONNS", cfg.MaxOpenConns)
	cfg.MaxIdleConns = getEnvIntWithDefault("DB_MAX_IDLE_CONNS", cfg.MaxIdleConns)
	cfg.ConnMaxLifetime = getEnvDurationWithDefault("DB_CONN_MAX_LIFETIME", cfg.ConnMaxLifetime)
	cfg.BusyTimeoutMs = getEnvIntWithDefault("DB_BUSY_TIMEOUT_MS", cfg.BusyTimeoutMs)
	cfg.EnableWAL = getEnvBoolWithDefault("DB_ENABLE_WAL", cfg.EnableWAL)
	return cfg
}

// LoadLoggingConfigFromEnv loads logging configuration from environment variables.
func LoadLoggingConfigFromEnv() *logging.Config {
	return &logging.Config{
		Level:  getEnvWithDefault("LOG_LEVEL", "info"),
		Format: getEnvWithDefault("LOG_FORMAT", "json"),
		Output: getEnvWithDefault("LOG_OUTPUT", "stderr"),
	}
}

// LoadCrawlParametersFromEnv loads crawl parameters from environment variables.
func LoadCrawlParametersFromEnv() *crawl.Parameters {
	p := crawl.DefaultParameters()
	p.PageSize = getEnvIntWithDefault("CRAWL_PAGE_SIZE", p.PageSize)
	p.MaxRetries = getEnvIntWithDefault("CRAWL_MAX_RETRIES", p.MaxRetries)
	p.BaseRetryDelay = getEnvDurationWithDefault("CRAWL_BASE_RETRY_DELAY", p.BaseRetryDelay)
	p.MaxRetryDelay = getEnvDurationWithDefault("CRAWL_MAX_RETRY_DELAY", p.MaxRetryDelay)
	p.Concurrency = getEnvIntWithDefault("CRAWL_CONCURRENCY", p.Concurrency)
	p.RequestTimeout = getEnvDurationWithDefault("CRAWL_REQUEST_TIMEOUT", p.RequestTimeout)
	p.RequestsPerSecond = getEnvFloatWithDefault("CRAWL_REQUESTS_PER_SECOND", p.RequestsPerSecond)
	return p
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(v string, def bool) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// Helper functions for environment variable parsing.
func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return parseBool(value, defaultValue)
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
