package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/newthinker/fisher/internal/app"
	"github.com/newthinker/fisher/internal/core"
)

var (
	analyzeSnapshot string
	analyzeEndDate  string
	analyzeOutput   string
	analyzeNoSave   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [tickers...]",
	Short: "Score tickers from the cache",
	Long: `Evaluate each ticker from its cached tool outputs and print the composite
result. Without tickers, the configured watchlist is used, then the snapshot's
tickers, then everything in the cache.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeSnapshot, "snapshot", "", "Import this snapshot file before analyzing")
	analyzeCmd.Flags().StringVar(&analyzeEndDate, "end-date", "", "Analysis date YYYY-MM-DD (defaults to today, UTC)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "text", "Output format: text or json")
	analyzeCmd.Flags().BoolVar(&analyzeNoSave, "no-save", false, "Do not write results back to the cache")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeOutput != "text" && analyzeOutput != "json" {
		return fmt.Errorf("unknown output format %q (expected text or json)", analyzeOutput)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if analyzeEndDate != "" {
		cfg.Analysis.EndDate = analyzeEndDate
	}
	if analyzeNoSave {
		cfg.Analysis.PersistResults = false
	}

	ctx := cmd.Context()
	log, store, err := setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer log.Sync()
	defer store.Close()

	a := app.New(cfg, store, log)

	tickers := args
	if len(tickers) == 0 {
		tickers = a.GetWatchlist()
	}

	if analyzeSnapshot != "" {
		snap, err := readSnapshot(analyzeSnapshot)
		if err != nil {
			return err
		}
		imported, err := a.Import(ctx, snap)
		if err != nil {
			return err
		}
		if len(tickers) == 0 {
			tickers = imported
		}
	}

	if len(tickers) == 0 {
		if tickers, err = store.Tickers(ctx); err != nil {
			return err
		}
	}

	results, analyzeErr := a.Analyze(ctx, tickers)

	out := cmd.OutOrStdout()
	if analyzeOutput == "json" {
		err = renderJSON(out, results)
	} else {
		err = renderText(out, results)
	}
	if err != nil {
		return err
	}
	return analyzeErr
}

func renderJSON(w io.Writer, results map[string]core.CompositeResult) error {
	if results == nil {
		results = map[string]core.CompositeResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func renderText(w io.Writer, results map[string]core.CompositeResult) error {
	tickers := make([]string, 0, len(results))
	for t := range results {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, t := range tickers {
		res := results[t]
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f/%.0f\n", t, strings.ToUpper(string(res.Signal)), res.Score, res.MaxScore)
		for _, c := range core.Categories {
			cr, _ := res.Category(c)
			fmt.Fprintf(tw, "  %s\t%.1f\t%s\n", c, cr.Score, cr.Details)
		}
	}
	return tw.Flush()
}
