package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"order-etl/internal/weekday"
)

// Config holds all job configuration.
type Config struct {
	Source  SourceConfig
	Sink    SinkConfig
	Logger  LoggerConfig
	Archive ArchiveConfig
	Metrics MetricsConfig
}

// SourceConfig holds PostgreSQL settings for the extract stage.
type SourceConfig struct {
	ConnectionString string
	MaxConnections   int
	MaxConnLifetime  int // seconds
	FetchSize        int
	WeekdayLocale    string
	WeekdayTimezone  string // IANA name or "Local"
}

// SinkConfig holds MongoDB settings for the load stage.
type SinkConfig struct {
	ConnectionString string
	Database         string
	Collection       string
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// ArchiveConfig controls the post-load document archive.
type ArchiveConfig struct {
	Enabled   bool
	LocalDir  string
	S3Enabled bool
	Bucket    string
	Region    string
	Prefix    string // key prefix within bucket (e.g., "orders/")
}

// MetricsConfig holds Prometheus Pushgateway settings. An empty URL disables pushing.
type MetricsConfig struct {
	PushgatewayURL string
	JobName        string
}

// Load loads configuration from environment variables.
// Connection strings default to empty and are not validated; a bad value
// surfaces when the job first connects.
func Load() (*Config, error) {
	cfg := &Config{
		Source: SourceConfig{
			ConnectionString: getEnv("POSTGRESQL_CONNECTION_STRING", ""),
			MaxConnections:   getEnvAsInt("DB_MAX_CONNECTIONS", 2),
			MaxConnLifetime:  getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
			FetchSize:        getEnvAsInt("CURSOR_FETCH_SIZE", 100),
			WeekdayLocale:    getEnv("WEEKDAY_LOCALE", weekday.DefaultLocale),
			WeekdayTimezone:  getEnv("WEEKDAY_TIMEZONE", "Local"),
		},
		Sink: SinkConfig{
			ConnectionString: getEnv("MONGODB_CONNECTION_STRING", ""),
			Database:         getEnv("MONGODB_DATABASE", "dcnhum24eom32t"),
			Collection:       getEnv("MONGODB_COLLECTION", "orders"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Archive: ArchiveConfig{
			Enabled:   getEnvAsBool("ARCHIVE_ENABLED", false),
			LocalDir:  getEnv("ARCHIVE_LOCAL_DIR", "data/archive"),
			S3Enabled: getEnvAsBool("ARCHIVE_S3_ENABLED", false),
			Bucket:    getEnv("ARCHIVE_S3_BUCKET", ""),
			Region:    getEnv("ARCHIVE_S3_REGION", "us-east-1"),
			Prefix:    getEnv("ARCHIVE_S3_PREFIX", "orders/"),
		},
		Metrics: MetricsConfig{
			PushgatewayURL: getEnv("METRICS_PUSHGATEWAY_URL", ""),
			JobName:        getEnv("METRICS_JOB_NAME", "order_etl"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Source.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Source.FetchSize < 1 {
		return fmt.Errorf("cursor fetch size must be at least 1")
	}

	if !weekday.Supported(c.Source.WeekdayLocale) {
		return fmt.Errorf("unsupported weekday locale: %s", c.Source.WeekdayLocale)
	}

	if _, err := time.LoadLocation(c.Source.WeekdayTimezone); err != nil {
		return fmt.Errorf("invalid weekday timezone: %s", c.Source.WeekdayTimezone)
	}

	if c.Sink.Database == "" {
		return fmt.Errorf("mongodb database name is required")
	}

	if c.Sink.Collection == "" {
		return fmt.Errorf("mongodb collection name is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Archive.Enabled {
		if c.Archive.LocalDir == "" {
			return fmt.Errorf("archive local directory is required when archive is enabled")
		}
		if c.Archive.S3Enabled {
			if c.Archive.Bucket == "" {
				return fmt.Errorf("S3 bucket is required when S3 archive is enabled")
			}
			if c.Archive.Region == "" {
				return fmt.Errorf("S3 region is required when S3 archive is enabled")
			}
		}
	}

	if c.Metrics.PushgatewayURL != "" && c.Metrics.JobName == "" {
		return fmt.Errorf("metrics job name is required when a pushgateway is configured")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
