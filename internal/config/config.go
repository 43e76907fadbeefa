// Package config loads and validates the application configuration from
// defaults, an optional YAML file, a .env file, and environment variables,
// in that order of precedence (later wins).
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage providers supported by the task store
const (
	ProviderPostgres = "postgres"
	ProviderSQLite   = "sqlite"
)

// Config is the full service configuration
type Config struct {
	Server    ServerConfig    `json:"server" yaml:"server"`
	Storage   StorageConfig   `json:"storage" yaml:"storage"`
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`
	Timeline  TimelineConfig  `json:"timeline" yaml:"timeline"`
	Logging   LoggingConfig   `json:"logging" yaml:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string `json:"host" yaml:"host"`
	Port         int    `json:"port" yaml:"port"`
	ReadTimeout  int    `json:"read_timeout_seconds" yaml:"read_timeout_seconds"`
	WriteTimeout int    `json:"write_timeout_seconds" yaml:"write_timeout_seconds"`
}

// StorageConfig represents database configuration
type StorageConfig struct {
	Provider string `json:"provider" yaml:"provider"`
	// DSN is the Postgres connection string when the provider is postgres
	DSN string `json:"-" yaml:"dsn"`
	// Path is the database file path when the provider is sqlite
	Path string `json:"path" yaml:"path"`
}

// RateLimitConfig represents request rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool   `json:"enabled" yaml:"enabled"`
	RedisAddr         string `json:"redis_addr" yaml:"redis_addr"`
	RedisPassword     string `json:"-" yaml:"redis_password"`
	RequestsPerMinute int    `json:"requests_per_minute" yaml:"requests_per_minute"`
}

// TimelineConfig represents milestone placement offsets
type TimelineConfig struct {
	MarketingLeadDays int `json:"marketing_lead_days" yaml:"marketing_lead_days"`
	VenueLeadDays     int `json:"venue_lead_days" yaml:"venue_lead_days"`
	FinalPrepLeadDays int `json:"final_prep_lead_days" yaml:"final_prep_lead_days"`
	CleanupLagDays    int `json:"cleanup_lag_days" yaml:"cleanup_lag_days"`
}

// LoggingConfig selects the log level and output format
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// DefaultConfig returns the built-in defaults before any overrides
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "localhost",
			Port:         8080,
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		Storage: StorageConfig{
			Provider: ProviderSQLite,
			Path:     "./data/showrunner.db",
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RedisAddr:         "localhost:6379",
			RequestsPerMinute: 120,
		},
		Timeline: TimelineConfig{
			MarketingLeadDays: 30,
			VenueLeadDays:     14,
			FinalPrepLeadDays: 3,
			CleanupLagDays:    7,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig loads configuration from defaults, an optional config file
// named by SHOWRUNNER_CONFIG_FILE, a .env file, and environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := DefaultConfig()

	if path := os.Getenv("SHOWRUNNER_CONFIG_FILE"); path != "" {
		if err := loadFromFile(config, path); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// loadFromFile overlays configuration from a YAML file
func loadFromFile(config *Config, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from the operator's environment
	if err != nil {
		return fmt.Errorf("error reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(config *Config) {
	applyServerEnv(config)
	applyStorageEnv(config)
	applyRateLimitEnv(config)
	applyTimelineEnv(config)
	applyLoggingEnv(config)
}

func applyServerEnv(config *Config) {
	if host := os.Getenv("SHOWRUNNER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SHOWRUNNER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if readTimeout := os.Getenv("SHOWRUNNER_READ_TIMEOUT_SECONDS"); readTimeout != "" {
		if rt, err := strconv.Atoi(readTimeout); err == nil {
			config.Server.ReadTimeout = rt
		}
	}
	if writeTimeout := os.Getenv("SHOWRUNNER_WRITE_TIMEOUT_SECONDS"); writeTimeout != "" {
		if wt, err := strconv.Atoi(writeTimeout); err == nil {
			config.Server.WriteTimeout = wt
		}
	}
}

func applyStorageEnv(config *Config) {
	if provider := os.Getenv("SHOWRUNNER_STORAGE_PROVIDER"); provider != "" {
		config.Storage.Provider = provider
	}
	if dsn := os.Getenv("SHOWRUNNER_DATABASE_DSN"); dsn != "" {
		config.Storage.DSN = dsn
	}
	if path := os.Getenv("SHOWRUNNER_DATABASE_PATH"); path != "" {
		config.Storage.Path = path
	}
}

func applyRateLimitEnv(config *Config) {
	if enabled := os.Getenv("SHOWRUNNER_RATE_LIMIT_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.RateLimit.Enabled = e
		}
	}
	if addr := os.Getenv("SHOWRUNNER_REDIS_ADDR"); addr != "" {
		config.RateLimit.RedisAddr = addr
	}
	if password := os.Getenv("SHOWRUNNER_REDIS_PASSWORD"); password != "" {
		config.RateLimit.RedisPassword = password
	}
	if rpm := os.Getenv("SHOWRUNNER_RATE_LIMIT_RPM"); rpm != "" {
		if r, err := strconv.Atoi(rpm); err == nil {
			config.RateLimit.RequestsPerMinute = r
		}
	}
}

func applyTimelineEnv(config *Config) {
	if days := os.Getenv("SHOWRUNNER_MARKETING_LEAD_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil {
			config.Timeline.MarketingLeadDays = d
		}
	}
	if days := os.Getenv("SHOWRUNNER_VENUE_LEAD_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil {
			config.Timeline.VenueLeadDays = d
		}
	}
	if days := os.Getenv("SHOWRUNNER_FINAL_PREP_LEAD_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil {
			config.Timeline.FinalPrepLeadDays = d
		}
	}
	if days := os.Getenv("SHOWRUNNER_CLEANUP_LAG_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil {
			config.Timeline.CleanupLagDays = d
		}
	}
}

func applyLoggingEnv(config *Config) {
	if level := os.Getenv("SHOWRUNNER_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("SHOWRUNNER_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}

	switch c.Storage.Provider {
	case ProviderPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("database DSN is required for the postgres provider")
		}
	case ProviderSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("database path is required for the sqlite provider")
		}
	default:
		return fmt.Errorf("unknown storage provider: %s", c.Storage.Provider)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RedisAddr == "" {
			return fmt.Errorf("redis address is required when rate limiting is enabled")
		}
		if c.RateLimit.RequestsPerMinute <= 0 {
			return fmt.Errorf("requests per minute must be positive")
		}
	}

	if c.Timeline.MarketingLeadDays < 0 || c.Timeline.VenueLeadDays < 0 ||
		c.Timeline.FinalPrepLeadDays < 0 || c.Timeline.CleanupLagDays < 0 {
		return fmt.Errorf("timeline offsets cannot be negative")
	}

	return nil
}
