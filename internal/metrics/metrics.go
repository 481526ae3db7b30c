package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	predictionsTotal        *prometheus.CounterVec
	predictionErrors        *prometheus.CounterVec
	cacheHits               prometheus.Counter
	cacheMisses             prometheus.Counter
	providerRequestDuration *prometheus.HistogramVec
	datasetRowsTotal        *prometheus.CounterVec
	datasetBuildDuration    prometheus.Histogram
	datasetSymbolsSkipped   prometheus.Counter
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

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

	r.predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketpulse_predictions_total",
			Help: "Total number of predictions served",
		},
		[]string{"symbol", "direction"},
	)
	r.predictionErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketpulse_prediction_errors_total",
			Help: "Total number of failed prediction requests",
		},
		[]string{"code"},
	)
	r.cacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "marketpulse_prediction_cache_hits_total",
			Help: "Prediction cache hits",
		},
	)
	r.cacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "marketpulse_prediction_cache_misses_total",
			Help: "Prediction cache misses",
		},
	)
	r.providerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketpulse_provider_request_duration_seconds",
			Help:    "Upstream provider request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
	r.datasetRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketpulse_dataset_rows_total",
			Help: "Training rows emitted per ticker",
		},
		[]string{"ticker"},
	)
	r.datasetBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "marketpulse_dataset_build_duration_seconds",
			Help:    "Training table build duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)
	r.datasetSymbolsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "marketpulse_dataset_symbols_skipped_total",
			Help: "Symbols skipped during dataset builds for missing data",
		},
	)

	reg.MustRegister(r.predictionsTotal)
	reg.MustRegister(r.predictionErrors)
	reg.MustRegister(r.cacheHits)
	reg.MustRegister(r.cacheMisses)
	reg.MustRegister(r.providerRequestDuration)
	reg.MustRegister(r.datasetRowsTotal)
	reg.MustRegister(r.datasetBuildDuration)
	reg.MustRegister(r.datasetSymbolsSkipped)

	return r
}

// RecordRequest records an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	r.httpRequestsTotal.WithLabelValues(method, path, statusLabel(status)).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments the in-flight request gauge.
func (r *Registry) InFlightInc() { r.httpRequestsInFlight.Inc() }

// InFlightDec decrements the in-flight request gauge.
func (r *Registry) InFlightDec() { r.httpRequestsInFlight.Dec() }

// RecordPrediction records a served prediction.
func (r *Registry) RecordPrediction(symbol, direction string) {
	r.predictionsTotal.WithLabelValues(symbol, direction).Inc()
}

// RecordPredictionError records a failed prediction request by error code.
func (r *Registry) RecordPredictionError(code string) {
	r.predictionErrors.WithLabelValues(code).Inc()
}

// RecordCacheHit records a prediction cache hit.
func (r *Registry) RecordCacheHit() { r.cacheHits.Inc() }

// RecordCacheMiss records a prediction cache miss.
func (r *Registry) RecordCacheMiss() { r.cacheMisses.Inc() }

// ObserveProvider records one upstream provider call.
func (r *Registry) ObserveProvider(provider string, seconds float64) {
	r.providerRequestDuration.WithLabelValues(provider).Observe(seconds)
}

// RecordDatasetRows records rows emitted for a ticker.
func (r *Registry) RecordDatasetRows(ticker string, n int) {
	r.datasetRowsTotal.WithLabelValues(ticker).Add(float64(n))
}

// ObserveDatasetBuild records one full table build.
func (r *Registry) ObserveDatasetBuild(seconds float64) {
	r.datasetBuildDuration.Observe(seconds)
}

// RecordDatasetSkip records a symbol skipped during a build.
func (r *Registry) RecordDatasetSkip() { r.datasetSymbolsSkipped.Inc() }

func statusLabel(status int) string {
	switch {
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
