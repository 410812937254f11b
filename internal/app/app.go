package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/newthinker/fisher/internal/analyzer"
	"github.com/newthinker/fisher/internal/cache"
	"github.com/newthinker/fisher/internal/config"
	"github.com/newthinker/fisher/internal/core"
	"github.com/newthinker/fisher/internal/payload"
)

// Observer receives run telemetry. metrics.Registry implements it.
type Observer interface {
	analyzer.Recorder
	cache.OpRecorder
	RecordDecodeFailure(kind string)
	RecordBatch(duration time.Duration)
	SetWatchedTickers(n int)
}

// Option configures an App
type Option func(*App)

// WithObserver reports evaluations, cache operations and decode failures to o
func WithObserver(o Observer) Option {
	return func(a *App) {
		a.observer = o
	}
}

// WithClock overrides the time source used to stamp analyses
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// App is the main application orchestrator
type App struct {
	cfg      *config.Config
	logger   *zap.Logger
	engine   *analyzer.Engine
	cache    cache.Store
	observer Observer
	now      func() time.Time

	mu        sync.RWMutex
	watchlist []string
	running   bool
	cancel    context.CancelFunc
}

// New creates a new App instance reading inputs from store
func New(cfg *config.Config, store cache.Store, logger *zap.Logger, opts ...Option) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Defaults()
	}

	a := &App{
		cfg:       cfg,
		logger:    logger,
		engine:    NewEngine(logger),
		cache:     store,
		now:       time.Now,
		watchlist: normalizeTickers(cfg.Analysis.Tickers),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.observer != nil {
		a.engine.SetRecorder(a.observer)
		a.cache = cache.Instrument(a.cache, a.observer)
	}
	return a
}

// Engine returns the analysis engine
func (a *App) Engine() *analyzer.Engine {
	return a.engine
}

// Cache returns the cache store in use
func (a *App) Cache() cache.Store {
	return a.cache
}

// SetWatchlist sets the tickers re-evaluated by RunOnce and Start
func (a *App) SetWatchlist(tickers []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.watchlist = normalizeTickers(tickers)
}

// GetWatchlist returns the current watchlist
func (a *App) GetWatchlist() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	result := make([]string, len(a.watchlist))
	copy(result, a.watchlist)
	return result
}

// Import stores one cache entry per snapshot ticker, replacing earlier
// entries and their analyses. It returns the imported tickers in order.
func (a *App) Import(ctx context.Context, snap payload.Snapshot) ([]string, error) {
	tickers := make([]string, 0, len(snap))
	for t := range snap {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	imported := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		if err := a.cache.Put(ctx, t, cache.Entry{Record: snap[t]}); err != nil {
			return imported, fmt.Errorf("importing %s: %w", t, err)
		}
		imported = append(imported, t)
	}

	a.logger.Info("snapshot imported", zap.Int("tickers", len(imported)))
	return imported, nil
}

// Analyze evaluates tickers concurrently, bounded by the configured
// concurrency. A failing ticker never blocks the others: its error is
// joined into the returned error and it is absent from the result map.
func (a *App) Analyze(ctx context.Context, tickers []string) (map[string]core.CompositeResult, error) {
	tickers = normalizeTickers(tickers)
	if len(tickers) == 0 {
		return nil, core.WrapError(core.ErrInvalidInput, fmt.Errorf("no tickers to analyze"))
	}

	start := time.Now()
	workers := max(1, a.cfg.Analysis.Concurrency)
	sem := make(chan struct{}, workers)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]core.CompositeResult, len(tickers))
		errs    []error
	)

	for _, t := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", ticker, ctx.Err()))
				mu.Unlock()
				return
			}

			res, err := a.analyzeTicker(ctx, ticker)

			mu.Lock()
			defer mu.Unlock()
			if res != nil {
				results[ticker] = *res
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", ticker, err))
			}
		}(t)
	}
	wg.Wait()

	if a.observer != nil {
		a.observer.RecordBatch(time.Since(start))
	}

	sort.Slice(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
	return results, errors.Join(errs...)
}

// analyzeTicker loads, evaluates and optionally persists one ticker. A
// persistence failure still returns the result alongside the error.
func (a *App) analyzeTicker(ctx context.Context, ticker string) (*core.CompositeResult, error) {
	entry, err := a.cache.Get(ctx, ticker)
	if err != nil {
		return nil, err
	}

	in, err := entry.Input(ticker, a.cfg.Analysis.Limits)
	if err != nil {
		a.reportDecodeErrors(ticker, err)
	}

	res, err := a.engine.Evaluate(ctx, in)
	if err != nil {
		return nil, err
	}

	if a.cfg.Analysis.PersistResults {
		updated := entry.WithAnalysis(*res, a.cfg.AnalysisTime(a.now()))
		if err := a.cache.Put(ctx, ticker, updated); err != nil {
			a.logger.Error("failed to persist analysis",
				zap.String("ticker", ticker),
				zap.Error(err),
			)
			return res, err
		}
		a.logger.Debug("updated cache", zap.String("ticker", ticker), zap.String("run_id", updated.RunID))
	}

	return res, nil
}

func (a *App) reportDecodeErrors(ticker string, err error) {
	parts := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		parts = joined.Unwrap()
	}

	for _, e := range parts {
		kind := "unknown"
		var pe *payload.PartError
		if errors.As(e, &pe) {
			kind = pe.Part
		}
		a.logger.Warn("payload part ignored",
			zap.String("ticker", ticker),
			zap.String("part", kind),
			zap.Error(e),
		)
		if a.observer != nil {
			a.observer.RecordDecodeFailure(kind)
		}
	}
}

// RunOnce analyzes the watchlist, or every cached ticker when the watchlist
// is empty, and logs the outcome.
func (a *App) RunOnce(ctx context.Context) map[string]core.CompositeResult {
	tickers := a.GetWatchlist()
	if len(tickers) == 0 {
		cached, err := a.cache.Tickers(ctx)
		if err != nil {
			a.logger.Error("listing cached tickers", zap.Error(err))
			return nil
		}
		tickers = cached
	}
	if a.observer != nil {
		a.observer.SetWatchedTickers(len(tickers))
	}
	if len(tickers) == 0 {
		a.logger.Debug("nothing to analyze")
		return nil
	}

	a.logger.Debug("starting analysis cycle", zap.Int("tickers", len(tickers)))
	results, err := a.Analyze(ctx, tickers)
	if err != nil {
		a.logger.Error("analysis cycle finished with errors",
			zap.Int("analyzed", len(results)),
			zap.Error(err),
		)
	}
	return results
}

// Start runs one analysis cycle immediately, then on the configured cron
// schedule until ctx is cancelled or Stop is called.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return fmt.Errorf("app already running")
	}

	log := cronLogger{log: a.logger.Sugar()}
	scheduler := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(log),
		cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
	)

	ctx, cancel := context.WithCancel(ctx)
	if _, err := scheduler.AddFunc(a.cfg.Analysis.Schedule, func() { a.RunOnce(ctx) }); err != nil {
		a.mu.Unlock()
		cancel()
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("schedule %q: %w", a.cfg.Analysis.Schedule, err))
	}
	a.running = true
	a.cancel = cancel
	a.mu.Unlock()

	a.logger.Info("fisher watching",
		zap.Int("watchlist_count", len(a.GetWatchlist())),
		zap.String("schedule", a.cfg.Analysis.Schedule),
	)

	a.RunOnce(ctx)
	scheduler.Start()

	<-ctx.Done()
	a.logger.Info("fisher shutting down")
	<-scheduler.Stop().Done()

	a.mu.Lock()
	a.running = false
	a.cancel = nil
	a.mu.Unlock()
	return ctx.Err()
}

// Stop stops the scheduling loop
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
}

// Running reports whether Start is active
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.running
}

func normalizeTickers(tickers []string) []string {
	seen := make(map[string]struct{}, len(tickers))
	result := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = core.NormalizeTicker(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}
	return result
}
