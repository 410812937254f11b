package analyzer

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/newthinker/fisher/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAnalyzer struct {
	category core.Category
	result   core.CategoryResult

	mu    sync.Mutex
	calls int
	seen  string
}

func (m *mockAnalyzer) Category() core.Category { return m.category }
func (m *mockAnalyzer) Analyze(in Input) core.CategoryResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.seen = in.Ticker
	return m.result
}

type mockRecorder struct {
	results []core.CompositeResult
}

func (r *mockRecorder) RecordEvaluation(res core.CompositeResult, _ time.Duration) {
	r.results = append(r.results, res)
}

func fullEngine(scores map[core.Category]float64) (*Engine, map[core.Category]*mockAnalyzer) {
	engine := NewEngine()
	mocks := make(map[core.Category]*mockAnalyzer)
	for _, c := range core.Categories {
		m := &mockAnalyzer{category: c, result: core.CategoryResult{Score: scores[c], Details: string(c)}}
		mocks[c] = m
		engine.Register(m)
	}
	return engine, mocks
}

func TestEngine_Evaluate(t *testing.T) {
	engine, mocks := fullEngine(map[core.Category]float64{
		core.CategoryGrowthQuality:        10,
		core.CategoryMarginsStability:     10,
		core.CategoryManagementEfficiency: 5,
		core.CategoryValuation:            5,
		core.CategoryInsiderActivity:      8,
		core.CategorySentiment:            3,
	})
	rec := &mockRecorder{}
	engine.SetRecorder(rec)

	res, err := engine.Evaluate(context.Background(), Input{Ticker: "AAPL"})
	require.NoError(t, err)

	// 3.0 + 2.5 + 1.0 + 0.75 + 0.4 + 0.15
	assert.InDelta(t, 7.8, res.Score, 1e-9)
	assert.Equal(t, core.SignalBullish, res.Signal)
	assert.Equal(t, "AAPL", res.Ticker)
	assert.Equal(t, core.MaxScore, res.MaxScore)
	assert.Equal(t, "sentiment_analysis", res.Sentiment.Details)

	for c, m := range mocks {
		assert.Equal(t, 1, m.calls, "analyzer %s", c)
		assert.Equal(t, "AAPL", m.seen)
	}
	require.Len(t, rec.results, 1)
	assert.Equal(t, res.Score, rec.results[0].Score)
}

func TestEngine_EvaluateMissingAnalyzer(t *testing.T) {
	engine := NewEngine()
	engine.Register(&mockAnalyzer{category: core.CategoryGrowthQuality})

	_, err := engine.Evaluate(context.Background(), Input{Ticker: "AAPL"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrAnalyzerMissing))
}

func TestEngine_EvaluateInvalidInput(t *testing.T) {
	engine, mocks := fullEngine(nil)

	_, err := engine.Evaluate(context.Background(), Input{Ticker: " "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))

	_, err = engine.Evaluate(context.Background(), Input{
		Ticker:    "AAPL",
		LineItems: []core.LineItem{{Revenue: core.Float(math.NaN())}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))

	for _, m := range mocks {
		assert.Zero(t, m.calls)
	}
}

func TestEngine_EvaluateCancelled(t *testing.T) {
	engine, _ := fullEngine(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Evaluate(ctx, Input{Ticker: "AAPL"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_GetAll(t *testing.T) {
	engine := NewEngine()
	engine.Register(&mockAnalyzer{category: core.CategorySentiment})
	engine.Register(&mockAnalyzer{category: core.CategoryGrowthQuality})
	engine.Register(&mockAnalyzer{category: core.CategoryGrowthQuality})

	all := engine.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, core.CategoryGrowthQuality, all[0].Category())
	assert.Equal(t, core.CategorySentiment, all[1].Category())

	_, ok := engine.Get(core.CategoryValuation)
	assert.False(t, ok)
}

func TestEngine_EvaluateConcurrentTickers(t *testing.T) {
	engine, _ := fullEngine(map[core.Category]float64{core.CategoryGrowthQuality: 5})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := engine.Evaluate(context.Background(), Input{Ticker: "MSFT"})
			if assert.NoError(t, err) {
				assert.InDelta(t, 1.5, res.Score, 1e-9)
			}
		}()
	}
	wg.Wait()
}
