package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/newthinker/fisher/internal/core"
	"github.com/newthinker/fisher/internal/payload"
	"github.com/newthinker/fisher/internal/storage/blob"
)

// Cache backend types
const (
	CacheMemory   = "memory"
	CacheLocalFS  = "localfs"
	CacheS3       = "s3"
	CachePostgres = "postgres"
)

type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// AnalysisConfig controls which tickers are analyzed and how.
type AnalysisConfig struct {
	Tickers        []string       `mapstructure:"tickers"`
	EndDate        string         `mapstructure:"end_date"` // YYYY-MM-DD, stamps analysis_date when set
	Concurrency    int            `mapstructure:"concurrency"`
	PersistResults bool           `mapstructure:"persist_results"`
	Schedule       string         `mapstructure:"schedule"` // cron spec with seconds
	Limits         payload.Limits `mapstructure:"limits"`
}

type CacheConfig struct {
	Type  string        `mapstructure:"type"` // "memory", "localfs", "s3" or "postgres"
	Path  string        `mapstructure:"path"` // For localfs
	S3    blob.S3Config `mapstructure:"s3"`   // For S3
	DSN   string        `mapstructure:"dsn"`  // For postgres
	Table string        `mapstructure:"table"`
}

// ServerConfig holds the status server configuration used by watch mode.
type ServerConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Addr        string `mapstructure:"addr"`
	MetricsPath string `mapstructure:"metrics_path"`
	APIKey      string `mapstructure:"api_key"` // empty disables auth
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// scheduleParser accepts the same specs as cron.New(cron.WithSeconds())
var scheduleParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Load reads configuration from file on top of Defaults
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.SetEnvPrefix("FISHER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("reading config: %w", err))
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unmarshaling config: %w", err))
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("analysis.tickers", d.Analysis.Tickers)
	v.SetDefault("analysis.concurrency", d.Analysis.Concurrency)
	v.SetDefault("analysis.persist_results", d.Analysis.PersistResults)
	v.SetDefault("analysis.schedule", d.Analysis.Schedule)
	v.SetDefault("analysis.limits.line_items", d.Analysis.Limits.LineItems)
	v.SetDefault("analysis.limits.insider_trades", d.Analysis.Limits.InsiderTrades)
	v.SetDefault("analysis.limits.news", d.Analysis.Limits.News)
	v.SetDefault("cache.type", d.Cache.Type)
	v.SetDefault("cache.path", d.Cache.Path)
	v.SetDefault("cache.table", d.Cache.Table)
	v.SetDefault("server.enabled", d.Server.Enabled)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.metrics_path", d.Server.MetricsPath)
	v.SetDefault("server.api_key", d.Server.APIKey)
	v.SetDefault("log.development", d.Log.Development)
	v.SetDefault("log.level", d.Log.Level)
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Tickers:        []string{},
			Concurrency:    4,
			PersistResults: true,
			Schedule:       "0 0 18 * * 1-5",
			Limits:         payload.DefaultLimits,
		},
		Cache: CacheConfig{
			Type:  CacheMemory,
			Path:  "./data",
			Table: "fisher_cache",
		},
		Server: ServerConfig{
			Enabled:     false,
			Addr:        ":9090",
			MetricsPath: "/metrics",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// AnalysisTime returns the configured end date, or now when none is set
func (c *Config) AnalysisTime(now time.Time) time.Time {
	if c.Analysis.EndDate == "" {
		return now
	}
	t, err := time.Parse(time.DateOnly, c.Analysis.EndDate)
	if err != nil {
		return now
	}
	return t
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// Analysis validation
	if c.Analysis.Concurrency < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("concurrency must be at least 1, got %d", c.Analysis.Concurrency))
	}
	if c.Analysis.EndDate != "" {
		if _, err := time.Parse(time.DateOnly, c.Analysis.EndDate); err != nil {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("end_date must be YYYY-MM-DD, got %q", c.Analysis.EndDate))
		}
	}
	if c.Analysis.Schedule != "" {
		if _, err := scheduleParser.Parse(c.Analysis.Schedule); err != nil {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("invalid schedule %q: %w", c.Analysis.Schedule, err))
		}
	}
	l := c.Analysis.Limits
	if l.LineItems < 0 || l.InsiderTrades < 0 || l.News < 0 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("limits cannot be negative"))
	}

	// Cache validation
	switch c.Cache.Type {
	case CacheMemory:
	case CacheLocalFS:
		if c.Cache.Path == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("cache path required when type is localfs"))
		}
	case CacheS3:
		if c.Cache.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when type is s3"))
		}
	case CachePostgres:
		if c.Cache.DSN == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("dsn required when type is postgres"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown cache type %q", c.Cache.Type))
	}

	// Server validation
	if c.Server.Enabled {
		if c.Server.Addr == "" {
			return core.WrapError(core.ErrConfigMissing, fmt.Errorf("server addr required when enabled"))
		}
		if !strings.HasPrefix(c.Server.MetricsPath, "/") {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("metrics path must start with /, got %q", c.Server.MetricsPath))
		}
		if strings.HasPrefix(c.Server.MetricsPath, "/api/") {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("metrics path %q collides with the API routes", c.Server.MetricsPath))
		}
	}

	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return core.WrapError(core.ErrConfigInvalid, err)
		}
	}

	return nil
}
