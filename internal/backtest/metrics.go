package backtest

import (
	"encoding/json"
	"math"
	"time"
)

// Metrics represents summary performance statistics for a simulation run
type Metrics struct {
	TotalPnL       float64   `json:"total_pnl"`
	MaxDrawdown    float64   `json:"max_drawdown"`
	StepVolatility float64   `json:"step_volatility"`
	SharpeRatio    float64   `json:"sharpe_ratio"`
	Entries        int       `json:"entries"`
	Steps          int       `json:"steps"`
	WinningSteps   int       `json:"winning_steps"`
	LosingSteps    int       `json:"losing_steps"`
	WinRate        float64   `json:"win_rate"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
}

// CalculateMetrics calculates summary metrics from a simulation result.
// The Sharpe-style ratio is per-step, not annualized: z-score PnL has no
// currency or calendar unit.
func CalculateMetrics(result Result) Metrics {
	metrics := Metrics{
		TotalPnL: result.TotalPnL,
		Entries:  result.Entries,
		Steps:    len(result.EquityCurve),
	}
	if len(result.EquityCurve) == 0 {
		return metrics
	}

	metrics.StartTime = result.EquityCurve[0].Time
	metrics.EndTime = result.EquityCurve[len(result.EquityCurve)-1].Time
	metrics.MaxDrawdown = result.EquityCurve.MaxDrawdown()
	metrics.StepVolatility = result.EquityCurve.StepVolatility()

	deltas := result.EquityCurve.Deltas()
	metrics.SharpeRatio = calculateSharpeRatio(deltas)
	metrics.WinningSteps, metrics.LosingSteps = countSteps(deltas)
	if decided := metrics.WinningSteps + metrics.LosingSteps; decided > 0 {
		metrics.WinRate = float64(metrics.WinningSteps) / float64(decided)
	}

	return metrics
}

// ToJSON exports metrics to JSON
func (m Metrics) ToJSON() string {
	data, _ := json.Marshal(m)
	return string(data)
}

func calculateSharpeRatio(deltas []float64) float64 {
	if len(deltas) == 0 {
		return 0
	}
	mean := average(deltas)
	std := stddev(deltas)
	if std == 0 {
		return 0
	}
	return mean / std
}

func countSteps(deltas []float64) (wins, losses int) {
	for _, d := range deltas {
		if d > 0 {
			wins++
		} else if d < 0 {
			losses++
		}
	}
	return wins, losses
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
