package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/fisher/internal/api"
	"github.com/newthinker/fisher/internal/app"
	"github.com/newthinker/fisher/internal/metrics"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-score the watchlist on a schedule",
	Long: `Run an analysis cycle immediately and then on analysis.schedule until
interrupted. When server.enabled is set, the status API and Prometheus metrics
are served on server.addr.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	log, store, err := setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer log.Sync()
	defer store.Close()

	reg := metrics.NewRegistry()
	a := app.New(cfg, store, log, app.WithObserver(reg))

	if cfg.Server.Enabled {
		srv, err := api.NewServer(api.Config{
			Addr:        cfg.Server.Addr,
			MetricsPath: cfg.Server.MetricsPath,
			APIKey:      cfg.Server.APIKey,
		}, api.Dependencies{App: a, Cache: a.Cache(), Metrics: reg}, log)
		if err != nil {
			return err
		}

		go func() {
			if err := srv.Start(); err != nil {
				log.Error("server error", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("server shutdown", zap.Error(err))
			}
		}()
	}

	err = a.Start(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
