// Package logger provides analytics-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AnalyticsLogger provides dedicated logging for pair analysis runs.
type AnalyticsLogger struct {
	*logrus.Entry
}

// NewAnalyticsLogger creates a new analytics logger.
func NewAnalyticsLogger(baseLogger *logrus.Logger) *AnalyticsLogger {
	return &AnalyticsLogger{
		Entry: baseLogger.WithField("component", "analytics"),
	}
}

// LogPairAnalysis logs a completed pair analysis run.
func (al *AnalyticsLogger) LogPairAnalysis(pair, estimator string, observations, window int, zscore float64, alertsTriggered int, durationMs float64) {
	al.WithFields(logrus.Fields{
		"pair":                 pair,
		"estimator":            estimator,
		"observations":         observations,
		"window":               window,
		"zscore":               zscore,
		"alerts_triggered":     alertsTriggered,
		"analysis_duration_ms": durationMs,
	}).Info("Pair analysis completed")
}

// LogHedgeRatio logs the estimated hedge ratio for a pair.
func (al *AnalyticsLogger) LogHedgeRatio(pair, estimator string, ratio float64, observations int) {
	al.WithFields(logrus.Fields{
		"pair":         pair,
		"estimator":    estimator,
		"hedge_ratio":  ratio,
		"observations": observations,
	}).Debug("Hedge ratio estimated")
}

// LogStationarity logs a spread stationarity test result.
func (al *AnalyticsLogger) LogStationarity(pair string, statistic, pvalue float64, lags, observations int, stationary bool) {
	al.WithFields(logrus.Fields{
		"pair":         pair,
		"statistic":    statistic,
		"pvalue":       pvalue,
		"lags":         lags,
		"observations": observations,
		"stationary":   stationary,
	}).Info("Stationarity test completed")
}

// LogAnalysisSkipped logs a pair that was skipped for lack of data.
func (al *AnalyticsLogger) LogAnalysisSkipped(pair, reason string, observations int) {
	al.WithFields(logrus.Fields{
		"pair":         pair,
		"reason":       reason,
		"observations": observations,
	}).Warn("Pair analysis skipped")
}

// LogBacktestRun logs a completed backtest simulation.
func (al *AnalyticsLogger) LogBacktestRun(pair string, entryZ, exitZ, totalPnL float64, entries, steps int) {
	al.WithFields(logrus.Fields{
		"pair":      pair,
		"entry_z":   entryZ,
		"exit_z":    exitZ,
		"total_pnl": totalPnL,
		"entries":   entries,
		"steps":     steps,
	}).Info("Backtest run completed")
}
