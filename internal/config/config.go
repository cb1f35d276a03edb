package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	CMS       CMSConfig       `yaml:"cms"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Search    SearchConfig    `yaml:"search"`
	Sync      SyncConfig      `yaml:"sync"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Listings  ListingsConfig  `yaml:"listings"`
	Logging   LoggingConfig   `yaml:"logging"`
	Timezone  string          `yaml:"timezone"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// CMSConfig contains headless CMS connection settings
type CMSConfig struct {
	BaseURL        string `yaml:"base_url"`
	Dataset        string `yaml:"dataset"`
	APIToken       string `yaml:"api_token"`
	CDNBaseURL     string `yaml:"cdn_base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Type     string         `yaml:"type"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// MySQLConfig contains MySQL connection settings
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// RedisConfig contains collection cache settings
type RedisConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// SearchConfig contains search engine settings
type SearchConfig struct {
	Meilisearch MeilisearchConfig `yaml:"meilisearch"`
}

// MeilisearchConfig contains Meilisearch connection settings
type MeilisearchConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	APIKey  string `yaml:"api_key"`
}

// SyncConfig contains CMS sync scheduler settings
type SyncConfig struct {
	Enabled          bool   `yaml:"enabled"`
	DailyRunTime     string `yaml:"daily_run_time"`
	RetentionDays    int    `yaml:"retention_days"`
	MaxDeletionCount int    `yaml:"max_deletion_count"`
}

// RateLimitConfig contains rate limiting settings for admin triggers
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	RequestsPerHour   int  `yaml:"requests_per_hour"`
}

// ListingsConfig contains listings presentation settings
type ListingsConfig struct {
	PageSize int `yaml:"page_size"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level       string `yaml:"level"`
	LogRequests bool   `yaml:"log_requests"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		CMS: CMSConfig{
			BaseURL:        "https://cms.example.com",
			Dataset:        "production",
			TimeoutSeconds: 15,
		},
		Database: DatabaseConfig{
			Type: "mysql",
			MySQL: MySQLConfig{
				Host:     "localhost",
				Port:     3306,
				User:     "portal",
				Database: "brokerage_portal",
			},
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "portal",
				Database: "brokerage_portal",
				SSLMode:  "disable",
			},
		},
		Redis: RedisConfig{
			Enabled:    true,
			Addr:       "localhost:6379",
			TTLSeconds: 300,
		},
		Search: SearchConfig{
			Meilisearch: MeilisearchConfig{
				Enabled: false,
				Host:    "http://localhost:7700",
			},
		},
		Sync: SyncConfig{
			Enabled:          false,
			DailyRunTime:     "02:00",
			RetentionDays:    90,
			MaxDeletionCount: 10000,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 30,
			RequestsPerHour:   1800,
		},
		Listings: ListingsConfig{
			PageSize: 9,
		},
		Logging: LoggingConfig{
			Level:       "info",
			LogRequests: true,
		},
		Timezone: "Asia/Dubai",
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filepath string) (*Config, error) {
	// Start with default config
	config := DefaultConfig()

	// If file doesn't exist, return default config with env overrides
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		config.applyEnvOverrides()
		return config, nil
	}

	// Read file
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnvOverrides()
	return config, nil
}

// applyEnvOverrides lets secrets and hosts come from the environment so the
// YAML file never needs credentials checked in.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CMS_BASE_URL"); v != "" {
		c.CMS.BaseURL = v
	}
	if v := os.Getenv("CMS_API_TOKEN"); v != "" {
		c.CMS.APIToken = v
	}
	if v := os.Getenv("CMS_DATASET"); v != "" {
		c.CMS.Dataset = v
	}
	if v := os.Getenv("DB_TYPE"); v != "" {
		c.Database.Type = v
	}
	if v := os.Getenv("MYSQL_HOST"); v != "" {
		c.Database.MySQL.Host = v
	}
	if v := os.Getenv("MYSQL_PASSWORD"); v != "" {
		c.Database.MySQL.Password = v
	}
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		c.Database.Postgres.Host = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		c.Database.Postgres.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("MEILISEARCH_HOST"); v != "" {
		c.Search.Meilisearch.Host = v
	}
	if v := os.Getenv("MEILISEARCH_API_KEY"); v != "" {
		c.Search.Meilisearch.APIKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

// GetTimeout returns the CMS request timeout as a duration
func (c *CMSConfig) GetTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetTTL returns the cache TTL as a duration
func (c *RedisConfig) GetTTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}
