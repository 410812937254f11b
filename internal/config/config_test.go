package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/fisher/internal/core"
	"github.com/newthinker/fisher/internal/payload"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))
	return cfgPath
}

func TestLoad_FromFile(t *testing.T) {
	cfgPath := writeConfig(t, `
analysis:
  tickers: [AAPL, MSFT]
  concurrency: 8
  limits:
    news: 20

cache:
  type: localfs
  path: "/tmp/fisher/cache"
`)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Analysis.Tickers)
	assert.Equal(t, 8, cfg.Analysis.Concurrency)
	assert.Equal(t, CacheLocalFS, cfg.Cache.Type)
	assert.Equal(t, "/tmp/fisher/cache", cfg.Cache.Path)

	// Unset keys fall back to defaults
	assert.True(t, cfg.Analysis.PersistResults)
	assert.Equal(t, "0 0 18 * * 1-5", cfg.Analysis.Schedule)
	assert.Equal(t, payload.Limits{LineItems: 5, InsiderTrades: 10, News: 20}, cfg.Analysis.Limits)
	assert.Equal(t, "fisher_cache", cfg.Cache.Table)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("FISHER_TEST_DSN", "postgres://localhost:5432/fisher")
	cfgPath := writeConfig(t, `
cache:
  type: postgres
  dsn: "${FISHER_TEST_DSN}"
`)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost:5432/fisher", cfg.Cache.DSN)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, core.ErrConfigMissing))
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, 4, cfg.Analysis.Concurrency)
	assert.Equal(t, payload.DefaultLimits, cfg.Analysis.Limits)
	assert.Equal(t, CacheMemory, cfg.Cache.Type)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_AnalysisTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cfg := Defaults()
	assert.Equal(t, now, cfg.AnalysisTime(now))

	cfg.Analysis.EndDate = "2024-12-31"
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), cfg.AnalysisTime(now))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr *core.Error
	}{
		{"defaults", func(c *Config) {}, nil},
		{"zero concurrency", func(c *Config) { c.Analysis.Concurrency = 0 }, core.ErrConfigInvalid},
		{"bad end date", func(c *Config) { c.Analysis.EndDate = "31/12/2024" }, core.ErrConfigInvalid},
		{"bad schedule", func(c *Config) { c.Analysis.Schedule = "every day" }, core.ErrConfigInvalid},
		{"five field schedule", func(c *Config) { c.Analysis.Schedule = "0 18 * * 1-5" }, core.ErrConfigInvalid},
		{"descriptor schedule", func(c *Config) { c.Analysis.Schedule = "@daily" }, nil},
		{"empty schedule", func(c *Config) { c.Analysis.Schedule = "" }, nil},
		{"negative limit", func(c *Config) { c.Analysis.Limits.News = -1 }, core.ErrConfigInvalid},
		{"unknown cache", func(c *Config) { c.Cache.Type = "redis" }, core.ErrConfigInvalid},
		{"localfs without path", func(c *Config) { c.Cache.Type = CacheLocalFS; c.Cache.Path = "" }, core.ErrConfigMissing},
		{"s3 without bucket", func(c *Config) { c.Cache.Type = CacheS3 }, core.ErrConfigMissing},
		{"postgres without dsn", func(c *Config) { c.Cache.Type = CachePostgres }, core.ErrConfigMissing},
		{"server without addr", func(c *Config) { c.Server.Enabled = true; c.Server.Addr = "" }, core.ErrConfigMissing},
		{"server bad metrics path", func(c *Config) { c.Server.Enabled = true; c.Server.MetricsPath = "metrics" }, core.ErrConfigInvalid},
		{"metrics path under api", func(c *Config) { c.Server.Enabled = true; c.Server.MetricsPath = "/api/metrics" }, core.ErrConfigInvalid},
		{"server enabled", func(c *Config) { c.Server.Enabled = true; c.Server.APIKey = "secret" }, nil},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, core.ErrConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
