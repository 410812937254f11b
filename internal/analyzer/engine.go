package analyzer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/newthinker/fisher/internal/core"
	"go.uber.org/zap"
)

// Recorder receives the outcome of every evaluation
type Recorder interface {
	RecordEvaluation(res core.CompositeResult, duration time.Duration)
}

// Engine manages analyzers and combines their results
type Engine struct {
	mu        sync.RWMutex
	analyzers map[core.Category]Analyzer
	logger    *zap.Logger
	recorder  Recorder
}

// NewEngine creates a new analysis engine
func NewEngine(logger ...*zap.Logger) *Engine {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Engine{
		analyzers: make(map[core.Category]Analyzer),
		logger:    l,
	}
}

// SetRecorder installs a hook called after each successful evaluation
func (e *Engine) SetRecorder(r Recorder) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recorder = r
}

// Register adds an analyzer, replacing any previous one for the same category
func (e *Engine) Register(a Analyzer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.analyzers[a.Category()] = a
}

// Get retrieves the analyzer for a category
func (e *Engine) Get(c core.Category) (Analyzer, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	a, ok := e.analyzers[c]
	return a, ok
}

// GetAll returns the registered analyzers in aggregation order
func (e *Engine) GetAll() []Analyzer {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := make([]Analyzer, 0, len(e.analyzers))
	for _, c := range core.Categories {
		if a, ok := e.analyzers[c]; ok {
			result = append(result, a)
		}
	}
	return result
}

// Evaluate runs every category analyzer on the input and aggregates the scores.
// Analyzers run concurrently and are joined before aggregation.
func (e *Engine) Evaluate(ctx context.Context, in Input) (*core.CompositeResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	e.mu.RLock()
	analyzers := make([]Analyzer, len(core.Categories))
	for i, c := range core.Categories {
		a, ok := e.analyzers[c]
		if !ok {
			e.mu.RUnlock()
			return nil, core.WrapError(core.ErrAnalyzerMissing, fmt.Errorf("category %s", c))
		}
		analyzers[i] = a
	}
	recorder := e.recorder
	e.mu.RUnlock()

	start := time.Now()
	results := make([]core.CategoryResult, len(analyzers))

	var wg sync.WaitGroup
	for i, a := range analyzers {
		wg.Add(1)
		go func(i int, a Analyzer) {
			defer wg.Done()
			results[i] = a.Analyze(in)
		}(i, a)
	}
	wg.Wait()

	byCategory := make(map[core.Category]core.CategoryResult, len(results))
	for i, c := range core.Categories {
		byCategory[c] = results[i]
		e.logger.Debug("category scored",
			zap.String("ticker", in.Ticker),
			zap.String("category", string(c)),
			zap.Float64("score", results[i].Score),
			zap.String("details", results[i].Details),
		)
	}

	res, err := Aggregate(in.Ticker, byCategory)
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)
	e.logger.Info(fmt.Sprintf("Analysis for %s: Signal=%s, Score=%.2f/10", in.Ticker, res.Signal, res.Score),
		zap.String("ticker", in.Ticker),
		zap.String("signal", string(res.Signal)),
		zap.Float64("score", res.Score),
		zap.Duration("duration", duration),
	)

	if recorder != nil {
		recorder.RecordEvaluation(res, duration)
	}

	return &res, nil
}
