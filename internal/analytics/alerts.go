package analytics

import (
	"github.com/yourusername/pairwatch/internal/timeseries"
)

// Alert rule identifiers, in evaluation order.
const (
	RuleZScore          = "Z-Score"
	RuleSpreadWidth     = "Spread Width"
	RuleCorrelationDrop = "Correlation Drop"
)

// AlertConfig enumerates which checks are active and their thresholds. The
// z-score check is always on; the other two are opt-in so an absent metric
// is unambiguous.
type AlertConfig struct {
	ZScoreThreshold      float64
	SpreadWidth          bool
	SpreadWidthThreshold float64
	CorrelationDrop      bool
	CorrelationThreshold float64
}

// Alert is a triggered condition. Absence of an Alert means no signal;
// there is no sentinel value.
type Alert struct {
	Rule      string  `json:"rule"`
	Observed  float64 `json:"observed"`
	Threshold float64 `json:"threshold"`
}

// EvaluateAlerts checks the configured conditions against the latest
// defined value of each metric series. An all-undefined metric never
// triggers and never fails. An empty result means every monitored metric is
// nominal; callers distinguish that from "no data yet" by gating on a
// minimum sample count before evaluating.
func EvaluateAlerts(zscore, spread, correlation timeseries.Series, cfg AlertConfig) []Alert {
	var alerts []Alert

	if p, ok := zscore.LastDefined(); ok {
		if abs(p.Value) > cfg.ZScoreThreshold {
			alerts = append(alerts, Alert{Rule: RuleZScore, Observed: p.Value, Threshold: cfg.ZScoreThreshold})
		}
	}

	if cfg.SpreadWidth {
		if p, ok := spread.LastDefined(); ok {
			if abs(p.Value) > cfg.SpreadWidthThreshold {
				alerts = append(alerts, Alert{Rule: RuleSpreadWidth, Observed: p.Value, Threshold: cfg.SpreadWidthThreshold})
			}
		}
	}

	if cfg.CorrelationDrop {
		if p, ok := correlation.LastDefined(); ok {
			if p.Value < cfg.CorrelationThreshold {
				alerts = append(alerts, Alert{Rule: RuleCorrelationDrop, Observed: p.Value, Threshold: cfg.CorrelationThreshold})
			}
		}
	}

	return alerts
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
