// Package analytics implements the pair analytics engine: hedge-ratio
// estimation, spread and z-score derivation, stationarity and correlation
// diagnostics, and threshold alert evaluation.
package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/yourusername/pairwatch/internal/timeseries"
)

// Ratio is the coefficient relating the two legs of a pair. It is either a
// single scalar (static estimators) or a per-observation path aligned
// index-for-index with the input series (adaptive estimators).
type Ratio struct {
	scalar bool
	value  float64
	path   timeseries.Series
}

// StaticRatio wraps a scalar hedge ratio.
func StaticRatio(v float64) Ratio {
	return Ratio{scalar: true, value: v}
}

// PathRatio wraps a time-varying hedge ratio path.
func PathRatio(path timeseries.Series) Ratio {
	return Ratio{path: path}
}

// Static reports whether the ratio is a single scalar.
func (r Ratio) Static() bool {
	return r.scalar
}

// At returns the ratio applicable at observation index i.
func (r Ratio) At(i int) float64 {
	if r.scalar {
		return r.value
	}
	return r.path[i].Value
}

// Latest returns the current ratio value.
func (r Ratio) Latest() float64 {
	if r.scalar {
		return r.value
	}
	if p, ok := r.path.Last(); ok {
		return p.Value
	}
	return timeseries.Undefined()
}

// Path returns the time-varying ratio path (nil for static ratios).
func (r Ratio) Path() timeseries.Series {
	return r.path
}

// Len returns the number of observations the ratio covers. Static ratios
// broadcast over any length.
func (r Ratio) Len() int {
	return len(r.path)
}

// Estimator produces a hedge ratio from two aligned series.
type Estimator interface {
	Name() string
	Estimate(y, x timeseries.Series) (Ratio, error)
}

// checkAligned enforces equal length, matching timestamps, and strictly
// increasing order on both series.
func checkAligned(y, x timeseries.Series) error {
	if len(y) != len(x) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(y), len(x))
	}
	if err := y.Validate(); err != nil {
		return err
	}
	if err := x.Validate(); err != nil {
		return err
	}
	for i := range y {
		if !y[i].Time.Equal(x[i].Time) {
			return fmt.Errorf("%w: timestamp mismatch at index %d", timeseries.ErrMisaligned, i)
		}
	}
	return nil
}

// HuberEstimator fits y ~ intercept + beta*x by iteratively reweighted least
// squares with Huber weights, down-weighting large residuals instead of
// squaring them unboundedly. It returns the slope as a static ratio.
type HuberEstimator struct {
	Delta   float64
	MaxIter int
	Tol     float64
}

// NewHuberEstimator returns an estimator with the standard tuning constant.
func NewHuberEstimator() *HuberEstimator {
	return &HuberEstimator{Delta: 1.345, MaxIter: 100, Tol: 1e-8}
}

// Name returns the estimator identifier.
func (h *HuberEstimator) Name() string {
	return "huber"
}

// Estimate fits the robust regression and returns the slope.
func (h *HuberEstimator) Estimate(y, x timeseries.Series) (Ratio, error) {
	if err := checkAligned(y, x); err != nil {
		return Ratio{}, err
	}
	n := len(y)
	if n < 2 {
		return Ratio{}, fmt.Errorf("%w: robust regression needs at least 2 paired points, got %d", ErrInsufficientData, n)
	}

	yv := y.Values()
	xv := x.Values()
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1
	}

	slope, intercept, err := weightedFit(yv, xv, weights)
	if err != nil {
		return Ratio{}, err
	}

	residuals := make([]float64, n)
	for iter := 0; iter < h.MaxIter; iter++ {
		for i := range residuals {
			residuals[i] = yv[i] - intercept - slope*xv[i]
		}
		scale := madScale(residuals)
		if scale == 0 {
			break
		}
		for i, r := range residuals {
			a := math.Abs(r) / scale
			if a <= h.Delta {
				weights[i] = 1
			} else {
				weights[i] = h.Delta / a
			}
		}

		nextSlope, nextIntercept, err := weightedFit(yv, xv, weights)
		if err != nil {
			return Ratio{}, err
		}
		if math.Abs(nextSlope-slope) < h.Tol && math.Abs(nextIntercept-intercept) < h.Tol {
			slope, intercept = nextSlope, nextIntercept
			break
		}
		slope, intercept = nextSlope, nextIntercept
	}

	return StaticRatio(slope), nil
}

// weightedFit solves the weighted least squares line y = a + b*x.
func weightedFit(y, x, w []float64) (slope, intercept float64, err error) {
	var sw, swx, swy, swxx, swxy float64
	for i := range y {
		sw += w[i]
		swx += w[i] * x[i]
		swy += w[i] * y[i]
		swxx += w[i] * x[i] * x[i]
		swxy += w[i] * x[i] * y[i]
	}
	denom := sw*swxx - swx*swx
	if denom == 0 {
		return 0, 0, fmt.Errorf("%w: zero variance in x", ErrInsufficientData)
	}
	slope = (sw*swxy - swx*swy) / denom
	intercept = (swy - slope*swx) / sw
	return slope, intercept, nil
}

// madScale is the median absolute deviation scaled to be consistent with the
// standard deviation under normality.
func madScale(residuals []float64) float64 {
	abs := make([]float64, len(residuals))
	for i, r := range residuals {
		abs[i] = math.Abs(r)
	}
	sort.Float64s(abs)
	var med float64
	mid := len(abs) / 2
	if len(abs)%2 == 0 {
		med = (abs[mid-1] + abs[mid]) / 2
	} else {
		med = abs[mid]
	}
	return med * 1.4826
}

// FilterEstimator is the adaptive recursive estimator. It carries a running
// ratio estimate and a scalar prediction variance through a single ordered
// pass; the state lives only for the duration of one Estimate call.
type FilterEstimator struct {
	Delta float64 // smoothing parameter, process noise Q = Delta/(1-Delta)
	R     float64 // observation noise variance
}

// NewFilterEstimator returns an estimator with the conventional tuning.
func NewFilterEstimator() *FilterEstimator {
	return &FilterEstimator{Delta: 1e-4, R: 0.01}
}

// Name returns the estimator identifier.
func (f *FilterEstimator) Name() string {
	return "filter"
}

// filterState is the per-step recursive state, threaded through the loop as
// an explicit accumulator.
type filterState struct {
	ratio    float64
	variance float64
}

// Estimate runs the recursive update over the pair and returns the full
// ratio path. The first estimate is always exactly 0: there is no prior
// observation to calibrate against.
func (f *FilterEstimator) Estimate(y, x timeseries.Series) (Ratio, error) {
	if err := checkAligned(y, x); err != nil {
		return Ratio{}, err
	}
	if len(y) == 0 {
		return Ratio{}, fmt.Errorf("%w: adaptive estimator needs at least 1 observation", ErrInsufficientData)
	}

	q := f.Delta / (1 - f.Delta)
	st := filterState{ratio: 0, variance: 1}
	path := make(timeseries.Series, len(y))

	for t := range y {
		st = f.step(st, t == 0, q, y[t].Value, x[t].Value)
		path[t] = timeseries.Point{Time: y[t].Time, Value: st.ratio}
	}

	return PathRatio(path), nil
}

// step applies one predict/update cycle. A zero gain denominator (x == 0
// with collapsed variance) is guarded explicitly: the gain is 0 and the
// ratio estimate does not move.
func (f *FilterEstimator) step(st filterState, first bool, q, y, x float64) filterState {
	p := st.variance
	if !first {
		p += q
	}

	var predicted float64
	if !first {
		predicted = st.ratio * x
	}
	innovation := y - predicted

	gain := 0.0
	if denom := x*x*p + f.R; denom != 0 {
		gain = p * x / denom
	}

	next := filterState{variance: (1 - gain*x) * p}
	if first {
		next.ratio = 0
	} else {
		next.ratio = st.ratio + gain*innovation
	}
	return next
}
