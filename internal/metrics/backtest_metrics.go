// Package metrics defines backtesting-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Backtest counter vectors
var (
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pairwatch",
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs by status",
	}, []string{"status"})
)

// Backtest gauge vectors
var (
	BacktestTotalPnL = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pairwatch",
		Name:      "backtest_total_pnl",
		Help:      "Total spread-unit PnL of the latest backtest run for each pair",
	}, []string{"pair"})
	BacktestEntries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pairwatch",
		Name:      "backtest_entries",
		Help:      "Number of entries in the latest backtest run for each pair",
	}, []string{"pair"})
)

// RecordBacktestRun records a backtest run event.
// status should be one of: "success", "failure"
func RecordBacktestRun(status string) {
	BacktestRunsTotal.WithLabelValues(status).Inc()
}

// RecordBacktestResult records headline results of a backtest run.
func RecordBacktestResult(pair string, totalPnL float64, entries int) {
	BacktestTotalPnL.WithLabelValues(pair).Set(totalPnL)
	BacktestEntries.WithLabelValues(pair).Set(float64(entries))
}
