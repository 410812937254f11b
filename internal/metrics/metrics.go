package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/newthinker/fisher/internal/core"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Analysis metrics
	evaluations        *prometheus.CounterVec
	categoryScore      *prometheus.HistogramVec
	compositeScore     prometheus.Histogram
	evaluationDuration prometheus.Histogram
	batchDuration      prometheus.Histogram
	cacheOperations    *prometheus.CounterVec
	decodeFailures     *prometheus.CounterVec
	watchedTickers     prometheus.Gauge
}

var scoreBuckets = prometheus.LinearBuckets(1, 1, 10)

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	r.evaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fisher_evaluations_total",
			Help: "Total number of ticker evaluations by resulting signal",
		},
		[]string{"signal"},
	)
	r.categoryScore = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fisher_category_score",
			Help:    "Distribution of category scores on the 0-10 scale",
			Buckets: scoreBuckets,
		},
		[]string{"category"},
	)
	r.compositeScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fisher_composite_score",
			Help:    "Distribution of weighted composite scores",
			Buckets: scoreBuckets,
		},
	)
	r.evaluationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fisher_evaluation_duration_seconds",
			Help:    "Time to evaluate one ticker",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
	)
	r.batchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fisher_batch_duration_seconds",
			Help:    "Time to analyze a batch of tickers including cache access",
			Buckets: prometheus.DefBuckets,
		},
	)
	r.cacheOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fisher_cache_operations_total",
			Help: "Total number of cache operations by outcome",
		},
		[]string{"op", "result"},
	)
	r.decodeFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fisher_payload_decode_failures_total",
			Help: "Total number of raw payload parts that could not be decoded",
		},
		[]string{"kind"},
	)
	r.watchedTickers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fisher_watched_tickers",
			Help: "Number of tickers re-evaluated on schedule",
		},
	)

	reg.MustRegister(r.evaluations)
	reg.MustRegister(r.categoryScore)
	reg.MustRegister(r.compositeScore)
	reg.MustRegister(r.evaluationDuration)
	reg.MustRegister(r.batchDuration)
	reg.MustRegister(r.cacheOperations)
	reg.MustRegister(r.decodeFailures)
	reg.MustRegister(r.watchedTickers)

	return r
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{Registry: r.Registry})
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordEvaluation records one composite result and its category scores.
func (r *Registry) RecordEvaluation(res core.CompositeResult, duration time.Duration) {
	r.evaluations.WithLabelValues(string(res.Signal)).Inc()
	r.compositeScore.Observe(res.Score)
	r.evaluationDuration.Observe(duration.Seconds())
	for _, c := range core.Categories {
		if cr, ok := res.Category(c); ok {
			r.categoryScore.WithLabelValues(string(c)).Observe(cr.Score)
		}
	}
}

// RecordBatch records the wall time of a multi-ticker run.
func (r *Registry) RecordBatch(duration time.Duration) {
	r.batchDuration.Observe(duration.Seconds())
}

// RecordCacheOp records a cache operation. A missing ticker counts as a miss.
func (r *Registry) RecordCacheOp(op string, err error) {
	r.cacheOperations.WithLabelValues(op, cacheResult(err)).Inc()
}

// RecordDecodeFailure records a payload part that could not be decoded.
func (r *Registry) RecordDecodeFailure(kind string) {
	r.decodeFailures.WithLabelValues(kind).Inc()
}

// SetWatchedTickers sets the number of scheduled tickers.
func (r *Registry) SetWatchedTickers(n int) {
	r.watchedTickers.Set(float64(n))
}

func cacheResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, core.ErrTickerNotFound):
		return "miss"
	default:
		return "error"
	}
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
