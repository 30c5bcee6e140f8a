// Package app assembles the book bot: configuration, bootstrap, and the
// Telegram runtime wiring on top of the reusable core.
package app

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/bookbot/core/config"
	coredatabase "github.com/m3rciful/bookbot/core/database"
)

const defaultRecommendLimit = 3

// CatalogConfig tunes the catalog-facing behaviour of the bot.
type CatalogConfig struct {
	// RecommendLimit caps how many books a genre recommendation shows.
	RecommendLimit int `yaml:"recommend_limit" envconfig:"CATALOG_RECOMMEND_LIMIT"`
}

// Config is the full bot configuration: core settings plus the database
// and catalog sections the bot adds on top.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Catalog  CatalogConfig       `yaml:"catalog"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// LoadConfig reads YAML from path, applies environment overrides, and
// validates the result.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.host is required")
	}
	if cfg.Database.Name == "" {
		return nil, fmt.Errorf("database.name is required")
	}
	if cfg.Catalog.RecommendLimit < 0 {
		return nil, fmt.Errorf("catalog.recommend_limit must be >= 0")
	}
	if cfg.Catalog.RecommendLimit == 0 {
		cfg.Catalog.RecommendLimit = defaultRecommendLimit
	}
	return &cfg, nil
}
