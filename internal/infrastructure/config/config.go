package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all service configuration.
type Config struct {
	Server  ServerConfig
	Shelf   ShelfConfig
	Ranking RankingConfig
	Cache   CacheConfig
	Logging LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8090"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// ShelfConfig holds predicted shelf geometry and policy.
type ShelfConfig struct {
	Capacity          int `envconfig:"SHELF_CAPACITY" default:"5"`
	Columns           int `envconfig:"SHELF_COLUMNS" default:"5"`
	AutoEnableItemMin int `envconfig:"SHELF_AUTO_ENABLE_ITEM_MIN" default:"5"`
}

// RankingConfig holds ranking service client configuration.
type RankingConfig struct {
	BaseURL string `envconfig:"RANKING_URL" default:"http://localhost:8091"`
	Surface string `envconfig:"RANKING_SURFACE" default:"hotseat"`
	Enabled bool   `envconfig:"RANKING_ENABLED" default:"true"`
}

// CacheConfig holds persistent cache configuration.
type CacheConfig struct {
	Dir string `envconfig:"CACHE_DIR" default:"/var/lib/hotshelf"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: "8090", Host: "127.0.0.1"},
		Shelf:   ShelfConfig{Capacity: 5, Columns: 5, AutoEnableItemMin: 5},
		Ranking: RankingConfig{BaseURL: "http://localhost:8091", Surface: "hotseat", Enabled: true},
		Cache:   CacheConfig{Dir: "/var/lib/hotshelf"},
		Logging: LogConfig{Level: "info"},
	}
}

func (c *Config) validate() error {
	if c.Shelf.Capacity <= 0 {
		return fmt.Errorf("shelf capacity must be positive, got %d", c.Shelf.Capacity)
	}
	if c.Shelf.Columns <= 0 {
		return fmt.Errorf("shelf columns must be positive, got %d", c.Shelf.Columns)
	}
	return nil
}
