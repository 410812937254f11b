package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/fisher/internal/app"
	"github.com/newthinker/fisher/internal/payload"
)

var importCmd = &cobra.Command{
	Use:   "import <snapshot-file>",
	Short: "Load a preloaded snapshot into the cache",
	Long: `Decode a JSON, Hjson or YAML snapshot keyed by ticker and store one cache
entry per ticker. The format is chosen from the file extension.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
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

	snap, err := readSnapshot(args[0])
	if err != nil {
		return err
	}

	a := app.New(cfg, store, log)
	imported, err := a.Import(ctx, snap)
	if err != nil {
		return err
	}

	log.Info("import complete", zap.String("file", args[0]), zap.Strings("tickers", imported))
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tickers into %s cache\n", len(imported), cfg.Cache.Type)
	return nil
}

func readSnapshot(path string) (payload.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	snap, err := payload.DecodeSnapshot(data, payload.FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	return snap, nil
}
