package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/fisher/internal/app"
	"github.com/newthinker/fisher/internal/cache"
	"github.com/newthinker/fisher/internal/config"
	"github.com/newthinker/fisher/internal/logger"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "fisher",
	Short: "FISHER - growth-investing multi-factor stock scorer",
	Long: `FISHER scores companies on growth quality, margin stability, management
efficiency, valuation, insider activity and news sentiment, and combines them
into a weighted 0-10 score with a bullish, neutral or bearish signal.

Inputs are read from a preloaded cache of financial tool outputs.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// loadConfig reads the config file, or defaults when none is given
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Defaults(), nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if debug {
		return logger.New(true, "debug")
	}
	return logger.New(cfg.Log.Development, cfg.Log.Level)
}

// setup validates cfg and opens the configured cache
func setup(ctx context.Context, cfg *config.Config) (*zap.Logger, cache.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation failed: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	if cfgFile == "" {
		log.Warn("no config file specified, using defaults")
	}

	store, err := app.OpenCache(ctx, cfg.Cache)
	if err != nil {
		log.Sync()
		return nil, nil, fmt.Errorf("opening %s cache: %w", cfg.Cache.Type, err)
	}
	return log, store, nil
}
