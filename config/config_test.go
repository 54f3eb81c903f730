package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/modwiki"
	"github.com/fwojciec/modwiki/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "modwiki.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		cfg, err := config.Load(writeConfig(t, "{}\n"))

		require.NoError(t, err)
		assert.Equal(t, config.DefaultWikiURL, cfg.WikiURL)
		assert.Equal(t, config.DefaultCategories(), cfg.Categories)
		assert.Empty(t, cfg.Pages)
		assert.Equal(t, config.StoreSQLite, cfg.Store)
		assert.Equal(t, 6, cfg.Concurrency)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
		assert.InDelta(t, 4.0, cfg.RateLimit, 1e-9)
		assert.Equal(t, 24*time.Hour, cfg.StaleAfter)
		assert.True(t, strings.HasSuffix(cfg.DBPath, filepath.Join(".cache", "modwiki", "mods.db")))
		assert.False(t, strings.HasPrefix(cfg.DBPath, "~"), "home directory should be expanded")
	})

	t.Run("reads values from file", func(t *testing.T) {
		path := writeConfig(t, `
wiki_url: https://wiki.test
categories:
  - Joker Mods
pages:
  - https://wiki.test/wiki/Mod_List
db_path: /tmp/modwiki/mods.json
store: json
concurrency: 2
timeout: 10s
rate_limit: 0.5
stale_after: 1h
user_agent: test-agent/1.0
`)

		cfg, err := config.Load(path)

		require.NoError(t, err)
		assert.Equal(t, "https://wiki.test", cfg.WikiURL)
		assert.Equal(t, []string{"Joker Mods"}, cfg.Categories)
		assert.Equal(t, []string{"https://wiki.test/wiki/Mod_List"}, cfg.Pages)
		assert.Equal(t, "/tmp/modwiki/mods.json", cfg.DBPath)
		assert.Equal(t, config.StoreJSON, cfg.Store)
		assert.Equal(t, 2, cfg.Concurrency)
		assert.Equal(t, 10*time.Second, cfg.Timeout)
		assert.InDelta(t, 0.5, cfg.RateLimit, 1e-9)
		assert.Equal(t, time.Hour, cfg.StaleAfter)
		assert.Equal(t, "test-agent/1.0", cfg.UserAgent)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("MODWIKI_DB_PATH", "/tmp/from-env.db")
		t.Setenv("MODWIKI_CONCURRENCY", "3")

		cfg, err := config.Load(writeConfig(t, "db_path: /tmp/from-file.db\n"))

		require.NoError(t, err)
		assert.Equal(t, "/tmp/from-env.db", cfg.DBPath)
		assert.Equal(t, 3, cfg.Concurrency)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))

		require.Error(t, err)
		assert.Equal(t, modwiki.EINVALID, modwiki.ErrorCode(err))
	})

	t.Run("rejects unknown store", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "store: postgres\n"))

		require.Error(t, err)
		assert.Contains(t, modwiki.ErrorMessage(err), "store")
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *config.Config {
		return &config.Config{
			WikiURL:     config.DefaultWikiURL,
			Categories:  config.DefaultCategories(),
			DBPath:      "/tmp/mods.db",
			Store:       config.StoreSQLite,
			Concurrency: 1,
			Timeout:     time.Second,
		}
	}

	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"non-http wiki URL", func(c *config.Config) { c.WikiURL = "ftp://wiki.test" }},
		{"no sources", func(c *config.Config) { c.Categories = nil }},
		{"empty db path", func(c *config.Config) { c.DBPath = "" }},
		{"zero concurrency", func(c *config.Config) { c.Concurrency = 0 }},
		{"zero timeout", func(c *config.Config) { c.Timeout = 0 }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.modify(cfg)

			assert.Equal(t, modwiki.EINVALID, modwiki.ErrorCode(cfg.Validate()))
		})
	}
}
