// Package common provides shared utilities for ngxd
package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for ngxd
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Clients     ClientsConfig `toml:"clients"`
	Market      MarketConfig  `toml:"market"`
	Reports     ReportsConfig `toml:"reports"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ClientsConfig holds upstream client configurations
type ClientsConfig struct {
	NGX     NGXConfig     `toml:"ngx"`
	Kwayisi KwayisiConfig `toml:"kwayisi"`
}

// NGXConfig holds configuration for the official NGX endpoints.
// BaseURL serves the public site (AJAX + price-list page); DoclibURL
// serves the statistics REST API.
type NGXConfig struct {
	BaseURL   string `toml:"base_url"`
	DoclibURL string `toml:"doclib_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *NGXConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// KwayisiConfig holds configuration for the afx.kwayisi.org mirror
type KwayisiConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *KwayisiConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// MarketConfig holds snapshot cache settings
type MarketConfig struct {
	CacheTTL string `toml:"cache_ttl"`
}

// GetCacheTTL parses and returns the snapshot cache TTL
func (c *MarketConfig) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// ReportsConfig holds the scheduled report writer settings
type ReportsConfig struct {
	Dir              string `toml:"dir"`
	ScheduleEnabled  bool   `toml:"schedule_enabled"`
	ScheduleInterval string `toml:"schedule_interval"`
}

// GetScheduleInterval parses and returns the scheduler interval
func (c *ReportsConfig) GetScheduleInterval() time.Duration {
	d, err := time.ParseDuration(c.ScheduleInterval)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Clients: ClientsConfig{
			NGX: NGXConfig{
				BaseURL:   "https://ngxgroup.com",
				DoclibURL: "https://doclib.ngxgroup.com/REST/api",
				RateLimit: 5,
				Timeout:   "30s",
			},
			Kwayisi: KwayisiConfig{
				BaseURL:   "https://afx.kwayisi.org",
				RateLimit: 5,
				Timeout:   "15s",
			},
		},
		Market: MarketConfig{
			CacheTTL: "5m",
		},
		Reports: ReportsConfig{
			Dir:              "reports",
			ScheduleEnabled:  false,
			ScheduleInterval: "24h",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("NGXD_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("NGXD_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("NGXD_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("NGXD_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if url := os.Getenv("NGXD_NGX_BASE_URL"); url != "" {
		config.Clients.NGX.BaseURL = url
	}

	if url := os.Getenv("NGXD_NGX_DOCLIB_URL"); url != "" {
		config.Clients.NGX.DoclibURL = url
	}

	if url := os.Getenv("NGXD_MIRROR_BASE_URL"); url != "" {
		config.Clients.Kwayisi.BaseURL = url
	}

	if ttl := os.Getenv("NGXD_CACHE_TTL"); ttl != "" {
		config.Market.CacheTTL = ttl
	}

	if dir := os.Getenv("NGXD_REPORTS_DIR"); dir != "" {
		config.Reports.Dir = dir
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
