// Package metrics provides centralized Prometheus metrics registry for pairwatch.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	TicksIngestedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pairwatch",
		Name:      "ticks_ingested_total",
		Help:      "Total number of trade ticks ingested by symbol",
	}, []string{"symbol"})
	BarsResampledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pairwatch",
		Name:      "bars_resampled_total",
		Help:      "Total number of OHLCV bars produced by the resampler",
	}, []string{"symbol"})
	StreamReconnectsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pairwatch",
		Name:      "stream_reconnects_total",
		Help:      "Total number of exchange stream reconnects",
	})
	AnalysesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pairwatch",
		Name:      "analyses_total",
		Help:      "Total number of pair analysis runs",
	})
	AnalysesSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pairwatch",
		Name:      "analyses_skipped_total",
		Help:      "Total number of pair analyses skipped for lack of data",
	})
	AlertsTriggeredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pairwatch",
		Name:      "alerts_triggered_total",
		Help:      "Total number of alerts triggered by rule",
	}, []string{"rule"})
)

// Gauge metrics
var (
	MonitoredPairs = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pairwatch",
		Name:      "monitored_pairs",
		Help:      "Number of currently monitored pairs",
	})
	ConnectedStreams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pairwatch",
		Name:      "connected_streams",
		Help:      "Number of currently connected exchange streams",
	})
)

// Histogram metrics
var (
	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pairwatch",
		Name:      "analysis_duration_seconds",
		Help:      "Duration of pair analysis runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	TickBatchFlushLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pairwatch",
		Name:      "tick_batch_flush_latency_seconds",
		Help:      "Latency of tick batch inserts in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(TicksIngestedTotal)
		registry.MustRegister(BarsResampledTotal)
		registry.MustRegister(StreamReconnectsTotal)
		registry.MustRegister(AnalysesTotal)
		registry.MustRegister(AnalysesSkippedTotal)
		registry.MustRegister(AlertsTriggeredTotal)

		// Register gauge metrics
		registry.MustRegister(MonitoredPairs)
		registry.MustRegister(ConnectedStreams)

		// Register histogram metrics
		registry.MustRegister(AnalysisDuration)
		registry.MustRegister(TickBatchFlushLatency)

		// Register pair analytics metrics
		registry.MustRegister(PairZScore)
		registry.MustRegister(PairHedgeRatio)
		registry.MustRegister(PairCorrelation)
		registry.MustRegister(PairStationarityPValue)

		// Register backtest metrics
		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(BacktestTotalPnL)
		registry.MustRegister(BacktestEntries)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordTickIngested records an ingested trade tick.
func RecordTickIngested(symbol string) {
	TicksIngestedTotal.WithLabelValues(symbol).Inc()
}

// RecordBarsResampled records bars produced by a resample run.
func RecordBarsResampled(symbol string, count int) {
	BarsResampledTotal.WithLabelValues(symbol).Add(float64(count))
}

// RecordStreamReconnect records an exchange stream reconnect.
func RecordStreamReconnect() {
	StreamReconnectsTotal.Inc()
}

// RecordAnalysis records a pair analysis run and its duration.
func RecordAnalysis(durationSeconds float64) {
	AnalysesTotal.Inc()
	AnalysisDuration.Observe(durationSeconds)
}

// RecordAnalysisSkipped records a skipped pair analysis.
func RecordAnalysisSkipped() {
	AnalysesSkippedTotal.Inc()
}

// RecordAlertTriggered records a triggered alert by rule name.
func RecordAlertTriggered(rule string) {
	AlertsTriggeredTotal.WithLabelValues(rule).Inc()
}

// UpdateMonitoredPairs updates the monitored pairs gauge.
func UpdateMonitoredPairs(count float64) {
	MonitoredPairs.Set(count)
}

// UpdateConnectedStreams updates the connected streams gauge.
func UpdateConnectedStreams(count float64) {
	ConnectedStreams.Set(count)
}

// RecordTickBatchFlush records tick batch insert latency.
func RecordTickBatchFlush(durationSeconds float64) {
	TickBatchFlushLatency.Observe(durationSeconds)
}
