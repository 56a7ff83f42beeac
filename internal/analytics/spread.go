package analytics

import (
	"fmt"

	"github.com/yourusername/pairwatch/internal/timeseries"
)

// ComputeSpread derives the spread y - ratio*x and its rolling z-score.
// The ratio broadcasts when static and applies elementwise otherwise. The
// first window-1 z-scores are undefined by construction, and a zero rolling
// standard deviation (constant spread within the window) yields an undefined
// z-score at that point rather than an infinity.
//
// Callers are responsible for clamping the window to the available sample
// count minus one when configuration exceeds history length.
func ComputeSpread(y, x timeseries.Series, ratio Ratio, window int) (spread, zscore timeseries.Series, err error) {
	if window < 2 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrInvalidWindow, window)
	}
	if err := checkAligned(y, x); err != nil {
		return nil, nil, err
	}
	if !ratio.Static() && ratio.Len() != len(y) {
		return nil, nil, fmt.Errorf("%w: ratio path has %d entries for %d observations", ErrLengthMismatch, ratio.Len(), len(y))
	}

	spread = make(timeseries.Series, len(y))
	for i := range y {
		spread[i] = timeseries.Point{
			Time:  y[i].Time,
			Value: y[i].Value - ratio.At(i)*x[i].Value,
		}
	}

	mean := timeseries.RollingMean(spread, window)
	std := timeseries.RollingStd(spread, window)

	zscore = make(timeseries.Series, len(spread))
	for i := range spread {
		zscore[i] = timeseries.Point{Time: spread[i].Time, Value: timeseries.Undefined()}
		if !timeseries.Defined(mean[i].Value) || !timeseries.Defined(std[i].Value) {
			continue
		}
		if std[i].Value == 0 {
			continue
		}
		zscore[i].Value = (spread[i].Value - mean[i].Value) / std[i].Value
	}

	return spread, zscore, nil
}
