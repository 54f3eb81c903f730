// Package config loads modwiki settings from a YAML file and MODWIKI_*
// environment variables.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/modwiki"
	"github.com/spf13/viper"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreJSON   = "json"
)

// DefaultWikiURL is the community wiki modwiki reads from.
const DefaultWikiURL = "https://balatromods.miraheze.org"

// DefaultCategories are the wiki categories whose articles describe mods.
func DefaultCategories() []string {
	return []string{
		"Content Mods",
		"Joker Mods",
		"Quality of Life Mods",
		"Crossover Mods",
		"Technical Mods",
		"API Mods",
	}
}

// Config holds all configuration for the application.
type Config struct {
	WikiURL     string        `mapstructure:"wiki_url"`
	Categories  []string      `mapstructure:"categories"`
	Pages       []string      `mapstructure:"pages"`
	DBPath      string        `mapstructure:"db_path"`
	Store       string        `mapstructure:"store"`
	Concurrency int           `mapstructure:"concurrency"`
	Timeout     time.Duration `mapstructure:"timeout"`
	RateLimit   float64       `mapstructure:"rate_limit"`
	StaleAfter  time.Duration `mapstructure:"stale_after"`
	UserAgent   string        `mapstructure:"user_agent"`
}

// Load reads configuration. When path is empty, modwiki.yaml is looked up
// in the working directory and in ~/.config/modwiki; a missing file is not
// an error. Environment variables (MODWIKI_DB_PATH, ...) override the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("modwiki")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "modwiki"))
		}
	}

	v.SetEnvPrefix("MODWIKI")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, modwiki.Errorf(modwiki.EINVALID, "failed to read config: %v", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, modwiki.Errorf(modwiki.EINVALID, "failed to decode config: %v", err)
	}

	cfg.DBPath = expandHome(cfg.DBPath)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("wiki_url", DefaultWikiURL)
	v.SetDefault("categories", DefaultCategories())
	v.SetDefault("pages", []string{})
	v.SetDefault("db_path", filepath.Join("~", ".cache", "modwiki", "mods.db"))
	v.SetDefault("store", StoreSQLite)
	v.SetDefault("concurrency", 6)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("rate_limit", 4.0)
	v.SetDefault("stale_after", 24*time.Hour)
	v.SetDefault("user_agent", "")
}

// Validate returns an error if the configuration cannot be used.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.WikiURL, "https://") && !strings.HasPrefix(c.WikiURL, "http://") {
		return modwiki.Errorf(modwiki.EINVALID, "wiki_url must be an http(s) URL, got %q", c.WikiURL)
	}
	if len(c.Categories) == 0 && len(c.Pages) == 0 {
		return modwiki.Errorf(modwiki.EINVALID, "at least one category or page is required")
	}
	if c.Store != StoreSQLite && c.Store != StoreJSON {
		return modwiki.Errorf(modwiki.EINVALID, "store must be %q or %q, got %q", StoreSQLite, StoreJSON, c.Store)
	}
	if c.DBPath == "" {
		return modwiki.Errorf(modwiki.EINVALID, "db_path required")
	}
	if c.Concurrency < 1 {
		return modwiki.Errorf(modwiki.EINVALID, "concurrency must be at least 1")
	}
	if c.Timeout <= 0 {
		return modwiki.Errorf(modwiki.EINVALID, "timeout must be positive")
	}
	return nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
