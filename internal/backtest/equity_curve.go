package backtest

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/yourusername/pairwatch/internal/timeseries"
)

// EquityPoint represents a point in the cumulative PnL curve
type EquityPoint struct {
	Time time.Time `json:"time"`
	PnL  float64   `json:"pnl"`
}

// EquityCurve represents the time-series of cumulative PnL
type EquityCurve []EquityPoint

// Series converts the curve to the shared series type
func (e EquityCurve) Series() timeseries.Series {
	out := make(timeseries.Series, len(e))
	for i, p := range e {
		out[i] = timeseries.Point{Time: p.Time, Value: p.PnL}
	}
	return out
}

// Deltas returns the per-step PnL changes
func (e EquityCurve) Deltas() []float64 {
	if len(e) < 2 {
		return []float64{}
	}
	deltas := make([]float64, 0, len(e)-1)
	for i := 1; i < len(e); i++ {
		deltas = append(deltas, e[i].PnL-e[i-1].PnL)
	}
	return deltas
}

// MaxDrawdown calculates the largest peak-to-trough decline of the curve
func (e EquityCurve) MaxDrawdown() float64 {
	if len(e) == 0 {
		return 0
	}
	peak := e[0].PnL
	maxDD := 0.0
	for _, p := range e {
		if p.PnL > peak {
			peak = p.PnL
		}
		if dd := peak - p.PnL; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// StepVolatility calculates the standard deviation of per-step PnL changes
func (e EquityCurve) StepVolatility() float64 {
	deltas := e.Deltas()
	if len(deltas) == 0 {
		return 0
	}
	mean := 0.0
	for _, d := range deltas {
		mean += d
	}
	mean /= float64(len(deltas))

	variance := 0.0
	for _, d := range deltas {
		diff := d - mean
		variance += diff * diff
	}
	variance /= float64(len(deltas))
	return math.Sqrt(variance)
}

// ToCSV exports the equity curve to a CSV string
func (e EquityCurve) ToCSV() string {
	var buf bytes.Buffer
	buf.WriteString("time,pnl\n")
	for _, point := range e {
		buf.WriteString(point.Time.Format(time.RFC3339))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.PnL))
		buf.WriteString("\n")
	}
	return buf.String()
}

// ToJSON exports the equity curve to a JSON string
func (e EquityCurve) ToJSON() string {
	data, _ := json.Marshal(e)
	return string(data)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
