package config

import (
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string `env:"DISCORD_TOKEN"`
	DiscordGuildID string `env:"DISCORD_GUILD_ID"`

	// State files live here, one JSON document per manager
	DataDir string `env:"DATA_DIR" envDefault:"data"`

	// Optional YAML file replacing the embedded catalogs
	CatalogFile string `env:"CATALOG_FILE"`

	// Discord IDs allowed to use admin commands regardless of permissions
	AdminWhitelist []int64 `env:"ADMIN_WHITELIST" envSeparator:","`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Environment: "development", "production" or "test"
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
	}

	return config, nil
}

// IsAdminWhitelisted reports whether the Discord ID is on the admin
// whitelist.
func (c *Config) IsAdminWhitelisted(discordID int64) bool {
	for _, id := range c.AdminWhitelist {
		if id == discordID {
			return true
		}
	}
	return false
}
