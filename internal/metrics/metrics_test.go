package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/fisher/internal/analyzer"
	"github.com/newthinker/fisher/internal/core"
)

// Ensure the registry implements prometheus.Gatherer and analyzer.Recorder
func TestRegistry_Interfaces(t *testing.T) {
	reg := NewRegistry()
	var _ prometheus.Gatherer = reg
	var _ analyzer.Recorder = reg
}

func TestRegistry_RecordRequest_StatusCodes(t *testing.T) {
	tests := []struct {
		status   int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{301, "3xx"},
		{404, "4xx"},
		{503, "5xx"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			reg := NewRegistry()
			reg.RecordRequest("GET", "/metrics", tt.status, 0.01)
			assert.Equal(t, 1.0, testutil.ToFloat64(reg.httpRequestsTotal.WithLabelValues("GET", "/metrics", tt.expected)))
		})
	}
}

func TestRegistry_InFlight(t *testing.T) {
	reg := NewRegistry()

	reg.InFlightInc()
	reg.InFlightInc()
	reg.InFlightDec()

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.httpRequestsInFlight))
}

func TestRegistry_RecordEvaluation(t *testing.T) {
	reg := NewRegistry()
	res := core.CompositeResult{
		Ticker:        "AAPL",
		Signal:        core.SignalBullish,
		Score:         8.1,
		MaxScore:      core.MaxScore,
		GrowthQuality: core.CategoryResult{Score: 10},
	}

	reg.RecordEvaluation(res, 3*time.Millisecond)
	reg.RecordEvaluation(res, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(reg.evaluations.WithLabelValues("bullish")))
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.evaluations.WithLabelValues("bearish")))
	assert.Equal(t, len(core.Categories), testutil.CollectAndCount(reg.categoryScore))
	assert.Equal(t, 1, testutil.CollectAndCount(reg.compositeScore))
}

func TestRegistry_RecordCacheOp(t *testing.T) {
	reg := NewRegistry()

	reg.RecordCacheOp("get", nil)
	reg.RecordCacheOp("get", core.WrapError(core.ErrTickerNotFound, errors.New("AAPL")))
	reg.RecordCacheOp("put", core.ErrCacheFailed)

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.cacheOperations.WithLabelValues("get", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.cacheOperations.WithLabelValues("get", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.cacheOperations.WithLabelValues("put", "error")))
}

func TestRegistry_Gauges(t *testing.T) {
	reg := NewRegistry()

	reg.RecordDecodeFailure("market_cap")
	reg.SetWatchedTickers(3)
	reg.RecordBatch(2 * time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.decodeFailures.WithLabelValues("market_cap")))
	assert.Equal(t, 3.0, testutil.ToFloat64(reg.watchedTickers))
	assert.Equal(t, 1, testutil.CollectAndCount(reg.batchDuration))
}

func TestRegistry_Handler(t *testing.T) {
	reg := NewRegistry()
	reg.RecordEvaluation(core.CompositeResult{Signal: core.SignalNeutral, Score: 5}, time.Millisecond)

	w := httptest.NewRecorder()
	reg.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(w.Result().Body)
	require.NoError(t, err)
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, string(body), `fisher_evaluations_total{signal="neutral"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
