package analytics

import (
	"fmt"
	"math"

	"github.com/yourusername/pairwatch/internal/timeseries"
)

// DefaultMaxLag is the lag range convention for cross-correlation scans.
const DefaultMaxLag = 20

// pearson computes the sample correlation of two equal-length slices.
// Fewer than 2 points or a zero-variance side yields undefined.
func pearson(x, y []float64) float64 {
	n := len(x)
	if n < 2 {
		return timeseries.Undefined()
	}

	mx := timeseries.Mean(x)
	my := timeseries.Mean(y)
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := x[i] - mx
		dy := y[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return timeseries.Undefined()
	}
	return sxy / math.Sqrt(sxx*syy)
}

// OLSRSquared returns the R-squared of y regressed on x with an intercept.
// It is purely diagnostic and independent of the hedge-ratio estimator.
func OLSRSquared(y, x timeseries.Series) (float64, error) {
	if err := checkAligned(y, x); err != nil {
		return 0, err
	}
	if len(y) < 2 {
		return 0, fmt.Errorf("%w: regression needs at least 2 paired points, got %d", ErrInsufficientData, len(y))
	}

	yv := y.Values()
	xv := x.Values()
	weights := make([]float64, len(yv))
	for i := range weights {
		weights[i] = 1
	}
	slope, intercept, err := weightedFit(yv, xv, weights)
	if err != nil {
		return 0, err
	}

	my := timeseries.Mean(yv)
	var ssRes, ssTot float64
	for i := range yv {
		res := yv[i] - intercept - slope*xv[i]
		ssRes += res * res
		tot := yv[i] - my
		ssTot += tot * tot
	}
	if ssTot == 0 {
		return timeseries.Undefined(), nil
	}
	return 1 - ssRes/ssTot, nil
}

// RollingCorrelation computes the Pearson correlation of x and y over a
// sliding window, using the same window convention as the z-score. The
// first window-1 positions and zero-variance windows are undefined.
func RollingCorrelation(x, y timeseries.Series, window int) (timeseries.Series, error) {
	if window < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindow, window)
	}
	if err := checkAligned(y, x); err != nil {
		return nil, err
	}

	xv := x.Values()
	yv := y.Values()
	out := make(timeseries.Series, len(x))
	for i := range x {
		out[i] = timeseries.Point{Time: x[i].Time, Value: timeseries.Undefined()}
		if i+1 < window {
			continue
		}
		out[i].Value = pearson(xv[i+1-window:i+1], yv[i+1-window:i+1])
	}
	return out, nil
}

// CrossCorrelation scans lags in [-maxLag, +maxLag] and correlates x[t]
// against y[t-lag] over the overlapping indices, exposing lead/lag
// structure. Lags with fewer than 2 overlapping points are undefined, not
// zero. Lag 0 equals the plain Pearson correlation of the two series.
func CrossCorrelation(x, y timeseries.Series, maxLag int) (map[int]float64, error) {
	if maxLag < 0 {
		return nil, fmt.Errorf("max lag must be non-negative: got %d", maxLag)
	}
	if err := checkAligned(y, x); err != nil {
		return nil, err
	}

	xv := x.Values()
	yv := y.Values()
	n := len(xv)

	out := make(map[int]float64, 2*maxLag+1)
	for lag := -maxLag; lag <= maxLag; lag++ {
		var xs, ys []float64
		for t := 0; t < n; t++ {
			shifted := t - lag
			if shifted < 0 || shifted >= n {
				continue
			}
			if !timeseries.Defined(xv[t]) || !timeseries.Defined(yv[shifted]) {
				continue
			}
			xs = append(xs, xv[t])
			ys = append(ys, yv[shifted])
		}
		out[lag] = pearson(xs, ys)
	}
	return out, nil
}
